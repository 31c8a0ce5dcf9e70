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
	"slices"
)

// Config provides immutable options for a conversion run.
// All fields are read-only after creation; getters return copies.
type Config struct {
	// exclude holds shell-style globs matched against compose service names.
	exclude []string

	// outputDir is the root directory generated artifacts are written under.
	outputDir string

	// version is reported in logs and generated file headers.
	version string

	// includeChecksums writes checksums.txt next to the generated files.
	includeChecksums bool
}

// Exclude returns a copy of the configured exclusion globs.
func (c *Config) Exclude() []string {
	return slices.Clone(c.exclude)
}

// OutputDir returns the output directory.
func (c *Config) OutputDir() string {
	return c.outputDir
}

// Version returns the converter version.
func (c *Config) Version() string {
	return c.version
}

// IncludeChecksums returns the include checksums setting.
func (c *Config) IncludeChecksums() bool {
	return c.includeChecksums
}

// Validate checks if the Config has valid settings.
func (c *Config) Validate() error {
	if c.outputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	for _, pattern := range c.exclude {
		if _, err := CompileGlob(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	return nil
}

type Option func(*Config)

// WithExclude appends exclusion globs. Empty patterns are ignored.
func WithExclude(patterns ...string) Option {
	return func(c *Config) {
		for _, p := range patterns {
			if p != "" {
				c.exclude = append(c.exclude, p)
			}
		}
	}
}

// WithOutputDir sets the directory generated artifacts are written under.
func WithOutputDir(dir string) Option {
	return func(c *Config) {
		c.outputDir = dir
	}
}

// WithVersion sets the converter version.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.version = version
	}
}

// WithIncludeChecksums sets whether a checksums file should be written.
func WithIncludeChecksums(enabled bool) Option {
	return func(c *Config) {
		c.includeChecksums = enabled
	}
}

// NewConfig returns a Config with default values.
func NewConfig(options ...Option) *Config {
	c := &Config{
		outputDir: ".",
		version:   "dev",
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}
