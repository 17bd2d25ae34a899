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
	"context"
	"fmt"
	"io"
	"net/http"
)

// OutcomeKind tells how far a probe got
type OutcomeKind int

const (
	// OutcomeResponse: the TV answered with a status code
	OutcomeResponse OutcomeKind = iota
	// OutcomeAnsweredWithError: the transport reported an error but a response was attached
	OutcomeAnsweredWithError
	// OutcomeTransportFailure: nothing came back
	OutcomeTransportFailure
)

// ProbeOutcome is what a probe observed, independent of the HTTP library
type ProbeOutcome struct {
	Kind       OutcomeKind
	StatusCode int
	Message    string
}

// ResponseReceived builds the outcome for a plain HTTP response
func ResponseReceived(status int) ProbeOutcome {
	return ProbeOutcome{Kind: OutcomeResponse, StatusCode: status}
}

// AnsweredWithError builds the outcome for a transport error carrying a response
func AnsweredWithError(status int, message string) ProbeOutcome {
	return ProbeOutcome{Kind: OutcomeAnsweredWithError, StatusCode: status, Message: message}
}

// TransportFailed builds the outcome for a request that got no response
func TransportFailed(message string) ProbeOutcome {
	return ProbeOutcome{Kind: OutcomeTransportFailure, Message: message}
}

// IsReachable classifies an outcome. Any answer below 500, including 4xx,
// counts as reachable, as does a transport error that still carried a response.
func IsReachable(o ProbeOutcome) bool {
	switch o.Kind {
	case OutcomeResponse:
		return o.StatusCode > 0 && o.StatusCode < 500
	case OutcomeAnsweredWithError:
		return true
	default:
		return false
	}
}

// describe returns the error text reported for an unreachable outcome
func (o ProbeOutcome) describe() string {
	if o.Kind == OutcomeResponse {
		return fmt.Sprintf("HTTP %d: %s", o.StatusCode, http.StatusText(o.StatusCode))
	}
	return o.Message
}

// Probe checks whether the TV answers HTTP at all. It never fails: every
// problem is reported through the returned state.
func (c *Client) Probe(ctx context.Context) Reachability {
	outcome := c.probe(ctx)

	state := Reachability{
		Connected:      IsReachable(outcome),
		Address:        c.device.Address,
		AuthConfigured: c.device.AuthConfigured(),
		HTTPStatus:     outcome.StatusCode,
	}
	if !state.Connected {
		state.Error = outcome.describe()
	}

	c.logger.Debug().
		Bool("connected", state.Connected).
		Int("http_status", state.HTTPStatus).
		Str("error", state.Error).
		Msg("Probe completed")

	return state
}

func (c *Client) probe(ctx context.Context) ProbeOutcome {
	if c.test {
		return ResponseReceived(http.StatusOK)
	}

	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.device.URL(ProbeEndpoint), nil)
	if err != nil {
		return TransportFailed(err.Error())
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// e.g. a CheckRedirect failure still hands back the response
		if resp != nil {
			resp.Body.Close()
			return AnsweredWithError(resp.StatusCode, err.Error())
		}
		return TransportFailed(err.Error())
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	return ResponseReceived(resp.StatusCode)
}
