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
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/convert"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
)

const (
	// ScrapeConfigName is the generated configmap holding prometheus.yml.
	ScrapeConfigName = "prometheus-scrape-config"
	// ScrapeConfigFile is the file name inside ScrapeConfigName.
	ScrapeConfigFile = "prometheus.yml"

	// ServiceName is the compose service produced by this provider.
	ServiceName = "prometheus"
	// WebPort is the Prometheus HTTP port.
	WebPort = 9090

	DefaultImage     = "prom/prometheus"
	DefaultRetention = "15d"

	globalScrapeInterval = "30s"
	containerConfigPath  = "/etc/prometheus/prometheus.yml"
	restartAlways        = "always"
)

// RenderScrapeConfig serializes the jobs into a prometheus.yml document,
// keeping job order.
func RenderScrapeConfig(jobs []ScrapeJob) ([]byte, error) {
	doc := ScrapeConfig{
		Global:        GlobalConfig{ScrapeInterval: globalScrapeInterval},
		ScrapeConfigs: jobs,
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode scrape config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush scrape config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteScrapeConfig writes prometheus.yml under the output directory and
// registers the generated configmap. Failures are fatal to the run.
func WriteScrapeConfig(jobs []ScrapeJob, run *convert.Context) error {
	data, err := RenderScrapeConfig(jobs)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to render scrape config", err)
	}

	dir := run.ConfigMapDir(ScrapeConfigName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to create scrape config directory", err,
			map[string]any{"path": dir})
	}

	file := filepath.Join(dir, ScrapeConfigFile)
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to write scrape config", err,
			map[string]any{"path": file})
	}

	run.AddFile(file)
	run.RegisterGeneratedConfigMap(ScrapeConfigName)

	run.Logger().Info("scrape config written",
		"path", file,
		"jobs", len(jobs),
	)
	return nil
}

// ResolveImage returns the image with a tag. An image containing ':' (a tag,
// a digest or a registry port) is used as is; otherwise the versioned tag is
// appended when a version is known, latest when not.
func ResolveImage(spec RuntimeSpec) string {
	image := spec.Image
	if image == "" {
		image = DefaultImage
	}
	if strings.Contains(image, ":") {
		return image
	}
	if spec.Version != "" {
		return fmt.Sprintf("%s:v%s", image, strings.TrimLeft(spec.Version, "v"))
	}
	return image + ":latest"
}

// ResolveRetention returns the retention or the default.
func ResolveRetention(spec RuntimeSpec) string {
	if spec.Retention != "" {
		return spec.Retention
	}
	return DefaultRetention
}

// BuildService builds the monitoring compose service. spec is nil when no
// Prometheus resource was indexed; a warning then reports the defaults used.
func BuildService(spec *RuntimeSpec, caMounts []string, run *convert.Context) *convert.ComposeService {
	var rs RuntimeSpec
	if spec != nil {
		rs = *spec
	}
	image := ResolveImage(rs)
	retention := ResolveRetention(rs)

	if spec == nil {
		run.Warn("No Prometheus CR found in manifests, using defaults (image=%s, retention=%s)",
			image, retention)
	}

	volumes := []string{
		fmt.Sprintf("./%s:%s:ro",
			path.Join(convert.ConfigMapsDir, ScrapeConfigName, ScrapeConfigFile), containerConfigPath),
	}
	for _, m := range caMounts {
		if !slices.Contains(volumes, m) {
			volumes = append(volumes, m)
		}
	}

	return &convert.ComposeService{
		Image:   image,
		Restart: restartAlways,
		Command: []string{
			"--config.file=" + containerConfigPath,
			"--storage.tsdb.retention.time=" + retention,
		},
		Volumes: volumes,
		Ports:   []string{fmt.Sprintf("%d:%d", WebPort, WebPort)},
	}
}

// RegisterSelf makes the monitoring service addressable under the name of
// the cluster Service that exposed Prometheus. The first registry key, in
// lexicographic order, that contains "prometheus" and exposes 9090 wins.
func RegisterSelf(run *convert.Context) {
	for _, key := range run.ServiceNames() {
		if key == ServiceName || !strings.Contains(key, ServiceName) {
			continue
		}
		info := run.Services[key]
		if !info.ExposesPort(WebPort) {
			continue
		}

		run.Aliases[info.Name] = ServiceName
		if _, ok := run.Services[ServiceName]; !ok {
			run.Services[ServiceName] = &convert.ServiceInfo{
				Name:      ServiceName,
				Namespace: info.Namespace,
				Selector:  map[string]string{},
				Ports:     slices.Clone(info.Ports),
			}
		}

		run.Logger().Debug("registered prometheus alias",
			"service", info.Name,
			"namespace", info.Namespace,
		)
		return
	}
}
