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
	"time"

	"bravia-remote/internal/bravia"
	"bravia-remote/internal/logger"

	"github.com/rs/zerolog"
)

// DefaultPollInterval matches the web UI's status refresh
const DefaultPollInterval = 30 * time.Second

// Monitor probes the TV on a fixed interval and logs when reachability changes.
// Each probe is independent; the monitor only remembers the last verdict to
// detect transitions.
type Monitor struct {
	service  *Service
	interval time.Duration
	observer func(bravia.Reachability)
	logger   zerolog.Logger

	known     bool
	connected bool
}

// MonitorOption configures a Monitor
type MonitorOption func(*Monitor)

// WithObserver is called with the state of every probe
func WithObserver(fn func(bravia.Reachability)) MonitorOption {
	return func(m *Monitor) {
		m.observer = fn
	}
}

// NewMonitor creates a monitor. A non-positive interval uses DefaultPollInterval.
func NewMonitor(service *Service, interval time.Duration, options ...MonitorOption) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	m := &Monitor{
		service:  service,
		interval: interval,
		logger:   logger.With("monitor"),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Run probes immediately and then on every tick until ctx is cancelled
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info().
		Dur("interval", m.interval).
		Msg("Starting reachability monitor")

	m.check(ctx)

	for {
		select {
		case <-ticker.C:
			m.check(ctx)
		case <-ctx.Done():
			m.logger.Info().Msg("Reachability monitor stopping")
			return
		}
	}
}

func (m *Monitor) check(ctx context.Context) bravia.Reachability {
	state := m.service.Reachability(ctx)

	if !m.known || state.Connected != m.connected {
		event := m.logger.Info()
		if !state.Connected {
			event = m.logger.Warn()
		}
		event.
			Str("tv_ip", state.Address).
			Bool("connected", state.Connected).
			Int("http_status", state.HTTPStatus).
			Str("error", state.Error).
			Msg("TV reachability changed")
	}
	m.known = true
	m.connected = state.Connected

	if m.observer != nil {
		m.observer(state)
	}
	return state
}
