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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/header"
)

func TestNewReport(t *testing.T) {
	dir := t.TempDir()
	out := &Output{
		Compose: Compose{Services: map[string]*ComposeService{
			"prometheus": {Image: "prom/prometheus:latest"},
			"alpha":      {Image: "alpha"},
		}},
		Warnings:  []string{"w1"},
		Files:     []string{filepath.Join(dir, "configmaps", "a", "b")},
		Duration:  1500 * time.Millisecond,
		OutputDir: dir,
	}

	r := NewReport(out, "v1.0.0", "run-1")

	assert.Equal(t, header.KindConversionReport, r.Kind)
	assert.Equal(t, "run-1", r.Metadata[MetadataRunID])
	assert.Equal(t, "v1.0.0", r.Metadata[header.MetadataVersion])
	assert.Equal(t, []string{"alpha", "prometheus"}, r.Services)
	assert.Equal(t, []string{"configmaps/a/b"}, r.Files)
	assert.Equal(t, []string{"w1"}, r.Warnings)
	assert.InDelta(t, 1.5, r.DurationSeconds, 0.0001)
}
