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

package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bravia-remote/internal/bravia"
	"bravia-remote/internal/logger"
	"bravia-remote/internal/metrics"

	"github.com/rs/zerolog"
)

// Transmitter delivers a resolved control code to the TV
type Transmitter interface {
	Transmit(ctx context.Context, code bravia.ControlCode) ([]byte, error)
}

// Prober reports whether the TV is reachable
type Prober interface {
	Probe(ctx context.Context) bravia.Reachability
}

// Response is the outcome of a command as reported to callers
type Response struct {
	Success bool             `json:"success"`
	Command string           `json:"command,omitempty"`
	Error   string           `json:"error,omitempty"`
	Kind    bravia.ErrorKind `json:"kind,omitempty"`
	Details string           `json:"details,omitempty"`
}

// Service turns command names into IRCC transmissions. It is the only
// path from untrusted input to a control code.
type Service struct {
	table       *bravia.CodeTable
	transmitter Transmitter
	prober      Prober
	device      bravia.DeviceConfig
	logger      zerolog.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithDevice names the TV in reachability reports
func WithDevice(device bravia.DeviceConfig) ServiceOption {
	return func(s *Service) {
		s.device = device
	}
}

// NewService wires a service. prober may be nil when reachability is not needed.
func NewService(table *bravia.CodeTable, transmitter Transmitter, prober Prober, options ...ServiceOption) *Service {
	s := &Service{
		table:       table,
		transmitter: transmitter,
		prober:      prober,
		logger:      logger.With("remote"),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Execute validates name, resolves it and transmits it once
func (s *Service) Execute(ctx context.Context, name string) *Response {
	if name == "" {
		metrics.ObserveCommand(string(bravia.KindMissingParameter), false, 0)
		return failure(bravia.KindMissingParameter, "command is required", "")
	}

	code, ok := s.table.Lookup(name)
	if !ok {
		s.logger.Warn().
			Str("command", name).
			Msg("Rejected unknown command")
		metrics.ObserveCommand(string(bravia.KindUnknownCommand), false, 0)
		return failure(bravia.KindUnknownCommand, fmt.Sprintf("unknown command: %s", name), "")
	}

	s.logger.Info().
		Str("command", name).
		Msg("Sending command")

	start := time.Now()
	_, err := s.transmitter.Transmit(ctx, code)
	elapsed := time.Since(start)

	if err != nil {
		resp := fromTransmitError(err)
		s.logger.Error().
			Str("command", name).
			Str("kind", string(resp.Kind)).
			Err(err).
			Msg("Failed to send command")
		metrics.ObserveCommand(string(resp.Kind), true, elapsed)
		return resp
	}

	metrics.ObserveCommand("", true, elapsed)
	return &Response{
		Success: true,
		Command: name,
	}
}

// Commands lists the accepted command names in table order
func (s *Service) Commands() []string {
	return s.table.Commands()
}

// Reachability probes the TV once
func (s *Service) Reachability(ctx context.Context) bravia.Reachability {
	if s.prober == nil {
		return bravia.Reachability{
			Address:        s.device.Address,
			AuthConfigured: s.device.AuthConfigured(),
			Error:          "reachability probe not configured",
		}
	}

	state := s.prober.Probe(ctx)
	metrics.ObserveProbe(state.Connected)
	return state
}

func failure(kind bravia.ErrorKind, message, details string) *Response {
	return &Response{
		Success: false,
		Error:   message,
		Kind:    kind,
		Details: details,
	}
}

func fromTransmitError(err error) *Response {
	var berr *bravia.Error
	if errors.As(err, &berr) {
		return failure(berr.Kind, berr.Message, berr.Details)
	}
	return failure(bravia.KindTransportError, err.Error(), "")
}
