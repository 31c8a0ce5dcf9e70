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

// Package serializer writes the generated compose fragment as YAML or JSON.
//
// Usage:
//
//	w, err := serializer.NewFileWriter(serializer.FormatYAML, "out/compose.yml")
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	if err := w.Serialize(ctx, compose); err != nil {
//		return err
//	}
//
// A Writer created with NewStdoutWriter prints to stdout and Close is a no-op.
// YAML output uses two-space indentation; JSON output is indented and ends
// with a newline. Map keys are emitted in sorted order in both formats, so
// output is stable across runs.
package serializer
