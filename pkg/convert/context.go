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

package convert

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/metrics"
)

// ConfigMapsDir is the directory, relative to the output root, that holds
// one subdirectory per configmap-like artifact.
const ConfigMapsDir = "configmaps"

// Context is the mutable state shared by every converter in one run.
//
// It is not safe for concurrent use: converters are invoked one after
// another and each one may read and write the tables below.
type Context struct {
	config  *Config
	logger  *slog.Logger
	metrics *metrics.Recorder

	// Warnings is the append-only diagnostic sink, in emission order.
	Warnings []string

	// Aliases maps addressable cluster names to compose service names.
	Aliases map[string]string

	// Services maps compose service names to the Service they came from.
	Services map[string]*ServiceInfo

	// ConfigMaps holds every configmap name whose files exist on disk.
	ConfigMaps sets.Set[string]

	// GeneratedConfigMaps holds the artifacts produced by converters.
	GeneratedConfigMaps sets.Set[string]

	files []string
}

// NewContext creates an empty run context. A nil config uses defaults and a
// nil logger uses slog.Default().
func NewContext(cfg *Config, logger *slog.Logger) *Context {
	if cfg == nil {
		cfg = NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		config:              cfg,
		logger:              logger,
		metrics:             metrics.New(),
		Aliases:             make(map[string]string),
		Services:            make(map[string]*ServiceInfo),
		ConfigMaps:          sets.New[string](),
		GeneratedConfigMaps: sets.New[string](),
	}
}

// Config returns the run configuration.
func (c *Context) Config() *Config {
	return c.config
}

// Logger returns the run-scoped logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Metrics returns the run counters.
func (c *Context) Metrics() *metrics.Recorder {
	return c.metrics
}

// Warn records a human-readable warning and logs it.
func (c *Context) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Warnings = append(c.Warnings, msg)
	c.metrics.Warning()
	c.logger.Warn(msg)
}

// Alias resolves a cluster name to its compose name, identity when unknown.
func (c *Context) Alias(name string) string {
	if v, ok := c.Aliases[name]; ok {
		return v
	}
	return name
}

// ServiceNames returns the registry keys in lexicographic order.
func (c *Context) ServiceNames() []string {
	names := make([]string, 0, len(c.Services))
	for name := range c.Services {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ConfigMapDir returns the on-disk directory of a configmap-like artifact.
func (c *Context) ConfigMapDir(name string) string {
	return filepath.Join(c.config.OutputDir(), ConfigMapsDir, name)
}

// RegisterGeneratedConfigMap records an artifact produced during the run so
// later lookups treat it like any indexed configmap.
func (c *Context) RegisterGeneratedConfigMap(name string) {
	c.GeneratedConfigMaps.Insert(name)
	c.ConfigMaps.Insert(name)
}

// AddFile records a file written during the run.
func (c *Context) AddFile(path string) {
	c.files = append(c.files, path)
}

// Files returns the files written so far, in write order.
func (c *Context) Files() []string {
	return slices.Clone(c.files)
}
