// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bravia

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"bravia-remote/internal/logger"

	"github.com/rs/zerolog"
)

// maxBodySize caps how much of a TV response is kept
const maxBodySize = 1 << 20

// simulatedResponse is returned by Transmit in test mode
const simulatedResponse = `<?xml version="1.0"?><s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body><u:X_SendIRCCResponse xmlns:u="urn:schemas-sony-com:service:IRCC:1"/></s:Body></s:Envelope>`

// Client talks to one Sony Bravia TV over its IRCC and HTTP interfaces
type Client struct {
	httpClient     *http.Client
	device         DeviceConfig
	commandTimeout time.Duration
	probeTimeout   time.Duration
	debug          bool
	test           bool
	logger         zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithCommandTimeout bounds each Transmit call
func WithCommandTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.commandTimeout = d
		}
	}
}

// WithProbeTimeout bounds each Probe call
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.probeTimeout = d
		}
	}
}

// WithDebug logs every request and response at debug level
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithTestMode makes the client simulate the TV without any network traffic
func WithTestMode(test bool) Option {
	return func(c *Client) {
		c.test = test
	}
}

// NewClient creates a client for the given device
func NewClient(device DeviceConfig, options ...Option) *Client {
	client := &Client{
		httpClient:     &http.Client{},
		device:         device,
		commandTimeout: DefaultCommandTimeout,
		probeTimeout:   DefaultProbeTimeout,
		logger:         logger.With("bravia"),
	}

	for _, option := range options {
		option(client)
	}

	if client.debug {
		logger.SetLevel(logger.LOG_DEBUG)
	}

	return client
}

// Device returns the device this client is bound to
func (c *Client) Device() DeviceConfig {
	return c.device
}

// Transmit sends one IRCC code to the TV and returns the raw response body.
// Failures are *Error values of kind KindRemoteRejected or KindTransportError.
func (c *Client) Transmit(ctx context.Context, code ControlCode) ([]byte, error) {
	if c.test {
		c.logger.Info().
			Str("code", string(code)).
			Msg("Test mode: IRCC request simulated")
		return []byte(simulatedResponse), nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	url := c.device.URL(IRCCEndpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(BuildEnvelope(code)))
	if err != nil {
		return nil, newTransportError(err)
	}

	req.Header.Set("Content-Type", irccContentType)
	req.Header.Set(HeaderSOAPAction, irccSOAPAction)
	c.authorize(req)

	if c.debug {
		c.logger.Debug().
			Str("url", url).
			Str("code", string(code)).
			Bool("psk", c.device.AuthConfigured()).
			Msg("Sending IRCC request")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("code", string(code)).
			Msg("IRCC request failed before any response")
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	// The TV has answered; a short read keeps whatever body arrived
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if readErr != nil {
		c.logger.Warn().
			Err(readErr).
			Int("status", resp.StatusCode).
			Msg("IRCC response body incomplete")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("IRCC request rejected by TV")
		return nil, newRemoteRejected(resp.StatusCode, http.StatusText(resp.StatusCode), body)
	}

	if c.debug {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("IRCC request successful")
	}

	return body, nil
}

// authorize attaches the PSK header only when one is configured
func (c *Client) authorize(req *http.Request) {
	if c.device.AuthConfigured() {
		req.Header.Set(HeaderAuthPSK, c.device.PSK)
	}
}
