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

// RuntimeSpec holds the runtime parameters of the first Prometheus resource.
// Empty fields are defaulted when the service is built.
type RuntimeSpec struct {
	Image     string
	Version   string
	Retention string
}

// Label is one selector.matchLabels entry.
type Label struct {
	Key   string
	Value string
}

// Monitor is the part of a ServiceMonitor the converter understands.
type Monitor struct {
	Name string
	// MatchLabels keeps source order when the loader recorded it, key order
	// otherwise.
	MatchLabels []Label
	Endpoints   []Endpoint
}

// LabelMap returns the selector as a map.
func (m *Monitor) LabelMap() map[string]string {
	out := make(map[string]string, len(m.MatchLabels))
	for _, l := range m.MatchLabels {
		out[l.Key] = l.Value
	}
	return out
}

// Endpoint is one scrape endpoint with defaults already applied.
type Endpoint struct {
	Port     PortRef
	Scheme   string
	Path     string
	Interval string
	// TLS is nil when the endpoint has no tlsConfig.
	TLS *TLSSpec
}

// TLSSpec is the supported subset of an endpoint tlsConfig.
type TLSSpec struct {
	CAConfigMap string
	CAKey       string
	ServerName  string
}

// ScrapeConfig is the generated prometheus.yml document.
type ScrapeConfig struct {
	Global        GlobalConfig `yaml:"global"`
	ScrapeConfigs []ScrapeJob  `yaml:"scrape_configs"`
}

// GlobalConfig holds the global defaults of the scrape config.
type GlobalConfig struct {
	ScrapeInterval string `yaml:"scrape_interval"`
}

// ScrapeJob is one scrape_configs entry.
type ScrapeJob struct {
	JobName        string         `yaml:"job_name"`
	MetricsPath    string         `yaml:"metrics_path"`
	ScrapeInterval string         `yaml:"scrape_interval"`
	Scheme         string         `yaml:"scheme"`
	StaticConfigs  []StaticConfig `yaml:"static_configs"`
	TLSConfig      *TLSConfig     `yaml:"tls_config,omitempty"`
}

// StaticConfig lists fixed scrape targets.
type StaticConfig struct {
	Targets []string `yaml:"targets"`
}

// TLSConfig is the tls_config block of a scrape job.
type TLSConfig struct {
	CAFile     string `yaml:"ca_file,omitempty"`
	ServerName string `yaml:"server_name,omitempty"`
}

// IsEmpty reports whether no field is set.
func (t *TLSConfig) IsEmpty() bool {
	return t == nil || (t.CAFile == "" && t.ServerName == "")
}
