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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileGlob(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{pattern: "redis-*", name: "redis-master", want: true},
		{pattern: "db-?", name: "db-10", want: false},
		{pattern: "cache[0-9]", name: "cache3", want: true},
		{pattern: "cache[!0-9]", name: "cache3", want: false},
		{pattern: "{a,b}", name: "a", want: false},
		{pattern: "{a,b}", name: "{a,b}", want: true},
		{pattern: "x{*}", name: "x{anything}", want: true},
		{pattern: `a\b`, name: `a\b`, want: true},
		{pattern: `a\*`, name: `a\tail`, want: true},
		{pattern: `a\*`, name: "a*", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			g, err := CompileGlob(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Match(tt.name))
		})
	}
}
