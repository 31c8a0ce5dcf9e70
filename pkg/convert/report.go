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
	"path/filepath"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/header"
)

// MetadataRunID is the report metadata key holding the run id.
const MetadataRunID = "run_id"

// Report is the machine-readable record of one conversion run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Services        []string `json:"services" yaml:"services"`
	Files           []string `json:"files,omitempty" yaml:"files,omitempty"`
	Warnings        []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	DurationSeconds float64  `json:"durationSeconds" yaml:"durationSeconds"`
}

// NewReport builds a report from a run output. File paths are made relative
// to the output directory when possible.
func NewReport(out *Output, version, runID string) *Report {
	files := make([]string, 0, len(out.Files))
	for _, f := range out.Files {
		if rel, err := filepath.Rel(out.OutputDir, f); err == nil {
			f = rel
		}
		files = append(files, filepath.ToSlash(f))
	}
	return &Report{
		Header:          header.New(header.KindConversionReport, version, header.WithMetadata(MetadataRunID, runID)),
		Services:        out.ServiceNames(),
		Files:           files,
		Warnings:        out.Warnings,
		DurationSeconds: out.Duration.Seconds(),
	}
}
