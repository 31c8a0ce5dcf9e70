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
	"strings"

	"github.com/gobwas/glob"
)

// CompileGlob compiles a shell-style pattern: '*', '?' and '[...]' classes
// are special, everything else matches itself. Braces and backslashes,
// which the glob engine would read as alternation and escapes, are quoted
// outside classes.
func CompileGlob(pattern string) (glob.Glob, error) {
	var b strings.Builder
	b.Grow(len(pattern))

	inClass := false
	for _, r := range pattern {
		switch {
		case inClass:
			if r == ']' {
				inClass = false
			}
		case r == '[':
			inClass = true
		case r == '{', r == '}', r == '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}

	return glob.Compile(b.String())
}
