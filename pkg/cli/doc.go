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

// Package cli implements the command-line interface of h2c-servicemonitor.
//
// # Overview
//
// h2c-servicemonitor reads rendered Kubernetes manifests and turns the
// Prometheus and ServiceMonitor custom resources they contain into a single
// prometheus compose service plus a generated scrape configuration.
//
// # Commands
//
// convert - Generate the monitoring service:
//
//	h2c-servicemonitor convert --input rendered/ --output out/ [--exclude GLOB]
//
// Loads every manifest from the given files, directories or URLs, indexes the
// Services and ConfigMaps, runs the registered providers and writes
// compose.yml, configmaps/ and optionally checksums.txt and a metrics file.
// The output directory can be pushed to an OCI registry with --push.
//
// verify - Check generated files:
//
//	h2c-servicemonitor verify --output out/
//
// Re-hashes every file listed in checksums.txt.
//
// version - Print build information.
//
// # Global Flags
//
//	--log-level    debug, info, warn or error (env: LOG_LEVEL)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Exit Codes
//
//	0  Success
//	1  Conversion or verification failed
//	2  Interrupted
//
// Warnings about skipped monitors and endpoints never change the exit code;
// they are printed to stderr prefixed with "Warning:".
package cli
