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

package oci

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
)

func testOutputDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"compose.yml": "services: {}\n",
		"configmaps/prometheus-scrape-config/prometheus.yml": "global: {}\n",
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPushTo(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	opts := PushOptions{
		SourceDir:             testOutputDir(t),
		Reference:             &Reference{Registry: "localhost:5000", Repository: "acme/monitoring", Tag: "v1"},
		Version:               "v1.2.3",
		ReproducibleTimestamp: "2025-01-01T00:00:00Z",
	}

	res, err := PushTo(ctx, opts, store)
	if err != nil {
		t.Fatalf("PushTo() error = %v", err)
	}
	if res.Reference != "localhost:5000/acme/monitoring:v1" {
		t.Errorf("Reference = %q", res.Reference)
	}

	desc, err := store.Resolve(ctx, "v1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if desc.Digest.String() != res.Digest {
		t.Errorf("digest = %s, want %s", desc.Digest, res.Digest)
	}

	data, err := content.FetchAll(ctx, store, desc)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	var manifest ociv1.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("failed to decode manifest: %v", err)
	}
	if manifest.ArtifactType != ArtifactType {
		t.Errorf("ArtifactType = %q, want %q", manifest.ArtifactType, ArtifactType)
	}
	if len(manifest.Layers) != 1 || manifest.Layers[0].MediaType != ociv1.MediaTypeImageLayerGzip {
		t.Errorf("unexpected layers: %+v", manifest.Layers)
	}
	if manifest.Annotations[ociv1.AnnotationVersion] != "v1.2.3" {
		t.Errorf("version annotation = %q", manifest.Annotations[ociv1.AnnotationVersion])
	}
	if manifest.Annotations[ociv1.AnnotationCreated] != "2025-01-01T00:00:00Z" {
		t.Errorf("created annotation = %q", manifest.Annotations[ociv1.AnnotationCreated])
	}
}

func TestPushToReproducible(t *testing.T) {
	ctx := context.Background()
	dir := testOutputDir(t)
	opts := PushOptions{
		SourceDir:             dir,
		Reference:             &Reference{Registry: "localhost:5000", Repository: "acme/monitoring", Tag: "v1"},
		ReproducibleTimestamp: "2025-01-01T00:00:00Z",
	}

	first, err := PushTo(ctx, opts, memory.New())
	if err != nil {
		t.Fatalf("first PushTo() error = %v", err)
	}
	second, err := PushTo(ctx, opts, memory.New())
	if err != nil {
		t.Fatalf("second PushTo() error = %v", err)
	}
	if first.Digest != second.Digest {
		t.Errorf("digests differ: %s vs %s", first.Digest, second.Digest)
	}
}

func TestPushValidation(t *testing.T) {
	tests := []struct {
		name string
		opts PushOptions
	}{
		{name: "no reference", opts: PushOptions{SourceDir: "."}},
		{
			name: "no tag",
			opts: PushOptions{SourceDir: ".", Reference: &Reference{Registry: "ghcr.io", Repository: "a/b"}},
		},
		{
			name: "no source",
			opts: PushOptions{Reference: &Reference{Registry: "ghcr.io", Repository: "a/b", Tag: "v1"}},
		},
		{
			name: "invalid repository",
			opts: PushOptions{SourceDir: ".", Reference: &Reference{Registry: "ghcr.io", Repository: "A B", Tag: "v1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Push(context.Background(), tt.opts)
			if err == nil {
				t.Fatal("Push() expected error")
			}
			if errors.CodeOf(err) != errors.ErrCodeInvalidRequest {
				t.Errorf("CodeOf() = %s, want %s", errors.CodeOf(err), errors.ErrCodeInvalidRequest)
			}
		})
	}
}
