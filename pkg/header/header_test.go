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

package header

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	h := New(KindConversionReport, "v1.0.0", WithTimestamp(ts), WithMetadata("run_id", "abc"), WithMetadata("empty", ""))

	if h.Kind != KindConversionReport {
		t.Errorf("Kind = %q, want %q", h.Kind, KindConversionReport)
	}
	if h.APIVersion != APIVersion {
		t.Errorf("APIVersion = %q, want %q", h.APIVersion, APIVersion)
	}
	want := map[string]string{
		MetadataTimestamp: "2025-03-01T11:00:00Z",
		MetadataVersion:   "v1.0.0",
		"run_id":          "abc",
	}
	if len(h.Metadata) != len(want) {
		t.Fatalf("Metadata = %v, want %v", h.Metadata, want)
	}
	for k, v := range want {
		if h.Metadata[k] != v {
			t.Errorf("Metadata[%q] = %q, want %q", k, h.Metadata[k], v)
		}
	}
}

func TestNewWithoutVersion(t *testing.T) {
	h := New(KindConversionReport, "")
	if _, ok := h.Metadata[MetadataVersion]; ok {
		t.Error("version metadata set for empty version")
	}
	if h.Metadata[MetadataTimestamp] == "" {
		t.Error("timestamp metadata missing")
	}
}

func TestKindIsValid(t *testing.T) {
	if !KindConversionReport.IsValid() {
		t.Error("KindConversionReport should be valid")
	}
	if Kind("Recipe").IsValid() {
		t.Error("unknown kind should be invalid")
	}
	if KindConversionReport.String() != "ConversionReport" {
		t.Errorf("String() = %q", KindConversionReport.String())
	}
}
