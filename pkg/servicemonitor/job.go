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

package servicemonitor

import (
	"fmt"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/convert"
)

const schemeHTTPS = "https"

// JobName names the job of endpoint idx. Single-endpoint monitors use the
// monitor name; otherwise the zero-based index is appended.
func JobName(monitor string, idx, count int) string {
	if count == 1 {
		return monitor
	}
	return fmt.Sprintf("%s-%d", monitor, idx)
}

// BuildScrapeJob assembles the scrape job of one endpoint. It returns false,
// after recording a warning, when the endpoint port cannot be resolved.
func BuildScrapeJob(mon *Monitor, idx int, target Target, run *convert.Context) (*ScrapeJob, []string, bool) {
	ep := mon.Endpoints[idx]

	port, ok := ResolvePort(ep.Port, target.Service)
	if !ok {
		run.Warn("ServiceMonitor '%s': could not resolve port '%s' to a number, skipping endpoint",
			mon.Name, ep.Port)
		run.Metrics().EndpointSkipped()
		return nil, nil, false
	}

	job := &ScrapeJob{
		JobName:        JobName(mon.Name, idx, len(mon.Endpoints)),
		MetricsPath:    ep.Path,
		ScrapeInterval: ep.Interval,
		Scheme:         ep.Scheme,
		StaticConfigs: []StaticConfig{
			{Targets: []string{fmt.Sprintf("%s:%d", target.Host(run), port)}},
		},
	}

	var mounts []string
	if ep.Scheme == schemeHTTPS {
		job.TLSConfig, mounts = BuildTLSConfig(mon.Name, ep.TLS, run)
	}

	return job, mounts, true
}
