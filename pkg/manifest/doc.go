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

// Package manifest loads rendered Kubernetes manifests into unstructured
// objects.
//
// Sources can be files, directories or http(s) URLs. Directories are walked
// recursively and only *.yaml, *.yml and *.json files are read, in lexical
// order. Each source may hold several YAML documents separated by "---";
// JSON is accepted as a single YAML document.
//
// Decoding rules:
//   - empty documents and documents that decode to null are ignored
//   - documents without a kind are skipped and logged at debug level
//   - kind List is flattened into its items
//   - integers decode as int64, matching what the apimachinery helpers expect
//
// Sources are read concurrently; the returned slice keeps source order and
// document order within each source.
//
// Usage:
//
//	objs, err := manifest.Load(ctx, []string{"rendered/"}, manifest.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
package manifest
