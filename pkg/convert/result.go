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
	"time"
)

// ComposeService is one service entry of the generated compose document.
type ComposeService struct {
	Image   string   `json:"image" yaml:"image"`
	Restart string   `json:"restart,omitempty" yaml:"restart,omitempty"`
	Command []string `json:"command,omitempty" yaml:"command,omitempty"`
	Volumes []string `json:"volumes,omitempty" yaml:"volumes,omitempty"`
	Ports   []string `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// Result is what a single Convert call contributes to the composition.
type Result struct {
	// Services are merged into the compose document by name.
	Services map[string]*ComposeService `json:"services,omitempty" yaml:"services,omitempty"`
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{Services: make(map[string]*ComposeService)}
}

// IsEmpty returns true if the result contributes nothing.
func (r *Result) IsEmpty() bool {
	return r == nil || len(r.Services) == 0
}

// Compose is the serialized compose fragment.
type Compose struct {
	Services map[string]*ComposeService `json:"services" yaml:"services"`
}

// Output contains the aggregated results of one conversion run.
type Output struct {
	// Compose holds every service produced by the providers.
	Compose Compose `json:"compose" yaml:"compose"`

	// Warnings is a copy of the run's warning sink.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Files lists generated artifact paths.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`

	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// OutputDir is the directory artifacts were generated into.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ServiceNames returns the produced service names in lexicographic order.
func (o *Output) ServiceNames() []string {
	names := make([]string, 0, len(o.Compose.Services))
	for name := range o.Compose.Services {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Summary returns a human-readable summary of the run.
func (o *Output) Summary() string {
	return fmt.Sprintf(
		"Generated %d service(s) and %d file(s) in %v with %d warning(s).",
		len(o.Compose.Services),
		len(o.Files),
		o.Duration.Round(time.Millisecond),
		len(o.Warnings),
	)
}
