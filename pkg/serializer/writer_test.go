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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
)

type testService struct {
	Image string   `json:"image" yaml:"image"`
	Ports []string `json:"ports,omitempty" yaml:"ports,omitempty"`
}

type testCompose struct {
	Services map[string]testService `json:"services" yaml:"services"`
}

var testData = testCompose{Services: map[string]testService{
	"prometheus": {Image: "prom/prometheus:latest", Ports: []string{"9090:9090"}},
	"api":        {Image: "api:1"},
}}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(FormatYAML, &buf).Serialize(context.Background(), testData); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	want := `services:
  api:
    image: api:1
  prometheus:
    image: prom/prometheus:latest
    ports:
      - 9090:9090
`
	if buf.String() != want {
		t.Errorf("YAML output mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(FormatJSON, &buf).Serialize(context.Background(), testData); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var got testCompose
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if got.Services["prometheus"].Image != "prom/prometheus:latest" {
		t.Errorf("Unexpected data: %+v", got)
	}
	if buf.Bytes()[buf.Len()-1] != '\n' {
		t.Error("JSON output should end with a newline")
	}
}

func TestWriter_UnknownFormatDefaultsToYAML(t *testing.T) {
	w := NewWriter(Format("xml"), &bytes.Buffer{})
	if w.Format() != FormatYAML {
		t.Errorf("Format() = %s, want %s", w.Format(), FormatYAML)
	}
}

func TestWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := NewWriter(FormatYAML, &buf).Serialize(ctx, testData); err == nil {
		t.Error("expected error for cancelled context")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written for a cancelled context")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		give    string
		want    Format
		wantErr bool
	}{
		{give: "yaml", want: FormatYAML},
		{give: "JSON", want: FormatJSON},
		{give: " yaml ", want: FormatYAML},
		{give: "table", wantErr: true},
		{give: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			got, err := ParseFormat(tt.give)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if errors.CodeOf(err) != errors.ErrCodeInvalidRequest {
					t.Errorf("CodeOf() = %s, want %s", errors.CodeOf(err), errors.ErrCodeInvalidRequest)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatExt(t *testing.T) {
	if FormatYAML.Ext() != ".yml" {
		t.Errorf("FormatYAML.Ext() = %s", FormatYAML.Ext())
	}
	if FormatJSON.Ext() != ".json" {
		t.Errorf("FormatJSON.Ext() = %s", FormatJSON.Ext())
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compose.yml")
	if err := WriteFile(context.Background(), FormatYAML, path, testData); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("services:\n")) {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestNewFileWriter_Error(t *testing.T) {
	_, err := NewFileWriter(FormatYAML, filepath.Join(t.TempDir(), "missing", "compose.yml"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if errors.CodeOf(err) != errors.ErrCodeIO {
		t.Errorf("CodeOf() = %s, want %s", errors.CodeOf(err), errors.ErrCodeIO)
	}
}

func TestWriter_CloseIdempotent(t *testing.T) {
	w, err := NewFileWriter(FormatJSON, filepath.Join(t.TempDir(), "out.json"))
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
