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

// Package oci publishes a conversion output directory to an OCI registry.
//
// The directory is packed as a single gzip tar layer under an OCI 1.1 image
// manifest whose artifact type is ArtifactType, so the generated compose
// fragment, prometheus.yml and CA files travel together and can be pulled
// with any ORAS-compatible client:
//
//	oras pull ghcr.io/acme/monitoring:v1.0.0
//
// # Usage
//
//	ref, err := oci.ParseReference("oci://ghcr.io/acme/monitoring:v1.0.0")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.Push(ctx, oci.PushOptions{SourceDir: outDir, Reference: ref})
//
// # Authentication
//
// Credentials are loaded from the standard Docker configuration
// (~/.docker/config.json) through the ORAS credentials package.
package oci
