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

package defaults

import "time"

// HTTP client timeouts for fetching remote manifests.
const (
	// HTTPClientTimeout is the total timeout of one manifest download.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for the TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// HTTP fetch throttling.
const (
	// HTTPFetchRate is the sustained number of manifest downloads per second.
	HTTPFetchRate = 10

	// HTTPFetchBurst is the number of downloads allowed at once.
	HTTPFetchBurst = 5
)

// OCI registry timeouts.
const (
	// OCIPushTimeout bounds a whole push of the output directory.
	OCIPushTimeout = 5 * time.Minute
)

// CLI timeouts.
const (
	// CLIConvertTimeout is the default deadline of a convert run, covering
	// input download, conversion and an optional push.
	CLIConvertTimeout = 10 * time.Minute
)
