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

package servicemonitor

import (
	"log/slog"

	"github.com/gobwas/glob"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/convert"
)

// excluder matches compose service names against shell-style globs.
type excluder struct {
	globs    []glob.Glob
	literals []string
}

// newExcluder compiles patterns. A pattern that does not compile is matched
// literally.
func newExcluder(patterns []string, logger *slog.Logger) *excluder {
	e := &excluder{}
	for _, p := range patterns {
		g, err := convert.CompileGlob(p)
		if err != nil {
			logger.Debug("exclude pattern is not a valid glob, matching literally",
				"pattern", p, "error", err)
			e.literals = append(e.literals, p)
			continue
		}
		e.globs = append(e.globs, g)
	}
	return e
}

// Excluded reports whether name matches any pattern.
func (e *excluder) Excluded(name string) bool {
	for _, g := range e.globs {
		if g.Match(name) {
			return true
		}
	}
	for _, l := range e.literals {
		if l == name {
			return true
		}
	}
	return false
}
