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

import (
	"testing"
	"time"
)

func TestTimeoutOrdering(t *testing.T) {
	tests := []struct {
		name    string
		shorter time.Duration
		longer  time.Duration
	}{
		{"connect within client", HTTPConnectTimeout, HTTPClientTimeout},
		{"tls within client", HTTPTLSHandshakeTimeout, HTTPClientTimeout},
		{"headers within client", HTTPResponseHeaderTimeout, HTTPClientTimeout},
		{"download within run", HTTPClientTimeout, CLIConvertTimeout},
		{"push within run", OCIPushTimeout, CLIConvertTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shorter >= tt.longer {
				t.Errorf("%v should be shorter than %v", tt.shorter, tt.longer)
			}
		})
	}
}
