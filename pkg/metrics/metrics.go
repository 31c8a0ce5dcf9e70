// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package metrics records per-run conversion counters. Each run owns its own
// registry so the numbers describe exactly one conversion, and can be written
// out in the node-exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reasons a ServiceMonitor contributes no scrape job.
const (
	SkipReasonNoSelector = "no_selector"
	SkipReasonUnresolved = "unresolved"
	SkipReasonExcluded   = "excluded"
)

// Recorder holds the counters of one conversion run.
type Recorder struct {
	registry *prometheus.Registry

	scrapeJobs       prometheus.Counter
	monitorsSkipped  *prometheus.CounterVec
	endpointsSkipped prometheus.Counter
	warnings         prometheus.Counter
	runDuration      prometheus.Gauge
}

// New creates a Recorder backed by a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		scrapeJobs: factory.NewCounter(prometheus.CounterOpts{
			Name: "h2c_scrape_jobs_total",
			Help: "Total number of scrape jobs written to the generated Prometheus config",
		}),
		monitorsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "h2c_servicemonitors_skipped_total",
				Help: "Total number of ServiceMonitors that produced no scrape job",
			},
			[]string{"reason"},
		),
		endpointsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "h2c_endpoints_skipped_total",
			Help: "Total number of ServiceMonitor endpoints skipped for an unresolvable port",
		}),
		warnings: factory.NewCounter(prometheus.CounterOpts{
			Name: "h2c_warnings_total",
			Help: "Total number of conversion warnings",
		}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "h2c_run_duration_seconds",
			Help: "Wall time of the conversion run in seconds",
		}),
	}
}

// ScrapeJobEmitted counts one generated scrape job.
func (r *Recorder) ScrapeJobEmitted() {
	r.scrapeJobs.Inc()
}

// MonitorSkipped counts a ServiceMonitor dropped for reason.
func (r *Recorder) MonitorSkipped(reason string) {
	r.monitorsSkipped.WithLabelValues(reason).Inc()
}

// EndpointSkipped counts one endpoint dropped for an unresolvable port.
func (r *Recorder) EndpointSkipped() {
	r.endpointsSkipped.Inc()
}

// Warning counts one warning.
func (r *Recorder) Warning() {
	r.warnings.Inc()
}

// ObserveRun records the run wall time.
func (r *Recorder) ObserveRun(d time.Duration) {
	r.runDuration.Set(d.Seconds())
}

// Gatherer exposes the run registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the run metrics to path in the textfile collector format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
