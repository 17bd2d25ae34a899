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

package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "bravia_remote_"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	registerOnce sync.Once
	registry     = prometheus.NewRegistry()

	commandsTotal  *prometheus.CounterVec
	commandLatency *prometheus.HistogramVec
	probesTotal    *prometheus.CounterVec
	deviceUp       prometheus.Gauge
	httpRequests   *prometheus.CounterVec
)

// Init registers all collectors. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		commandsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "commands_total",
				Help: "Remote commands handled, by outcome kind",
			},
			[]string{"result", "kind"},
		)
		commandLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "command_latency_seconds",
				Help:    "Round trip time of IRCC transmissions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		probesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "probes_total",
				Help: "Reachability probes by result",
			},
			[]string{"result"},
		)
		deviceUp = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "device_up",
				Help: "1 if the last probe found the TV reachable",
			},
		)
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "API requests by route and status code",
			},
			[]string{"route", "code"},
		)

		registry.MustRegister(
			commandsTotal,
			commandLatency,
			probesTotal,
			deviceUp,
			httpRequests,
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		)
	})
}

// Handler exposes the registry in Prometheus text format
func Handler() http.Handler {
	Init()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveCommand records one handled command. kind is empty on success.
func ObserveCommand(kind string, transmitted bool, duration time.Duration) {
	Init()
	result := ResultSuccess
	if kind != "" {
		result = ResultFailure
	}
	commandsTotal.WithLabelValues(result, kind).Inc()
	if transmitted {
		commandLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveProbe records one reachability probe
func ObserveProbe(connected bool) {
	Init()
	if connected {
		probesTotal.WithLabelValues(ResultSuccess).Inc()
		deviceUp.Set(1)
		return
	}
	probesTotal.WithLabelValues(ResultFailure).Inc()
	deviceUp.Set(0)
}

// ObserveHTTP records one API request
func ObserveHTTP(route, code string) {
	Init()
	httpRequests.WithLabelValues(route, code).Inc()
}
