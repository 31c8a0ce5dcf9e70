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

package checksum

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
)

// ChecksumFileName is the standard name for checksum files.
const ChecksumFileName = "checksums.txt"

// Mismatch describes a file whose content no longer matches checksums.txt.
type Mismatch struct {
	Path     string
	Expected string
	Actual   string
}

func (m Mismatch) String() string {
	if m.Actual == "" {
		return fmt.Sprintf("%s: missing", m.Path)
	}
	return fmt.Sprintf("%s: expected %s, got %s", m.Path, m.Expected, m.Actual)
}

// GenerateChecksums writes checksums.txt into dir for the given files and
// returns its path. Entries use slash-separated paths relative to dir, sorted,
// with duplicates removed.
func GenerateChecksums(ctx context.Context, dir string, files []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "context cancelled", err)
	}

	entries := make(map[string]string, len(files))
	for _, file := range files {
		sum, err := fileSum(file)
		if err != nil {
			return "", err
		}
		relPath, err := filepath.Rel(dir, file)
		if err != nil {
			// If relative path fails, use the path as given
			relPath = file
		}
		entries[filepath.ToSlash(relPath)] = sum
	}

	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	var buf bytes.Buffer
	for _, p := range paths {
		fmt.Fprintf(&buf, "%s  %s\n", entries[p], p)
	}

	checksumPath := GetChecksumFilePath(dir)
	if err := os.WriteFile(checksumPath, buf.Bytes(), 0o644); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO, "failed to write checksums", err,
			map[string]any{"path": checksumPath})
	}

	slog.Debug("checksums generated",
		"file_count", len(paths),
		"path", checksumPath,
	)

	return checksumPath, nil
}

// Verify re-hashes every file listed in dir/checksums.txt and reports the
// ones that changed or disappeared.
func Verify(ctx context.Context, dir string) ([]Mismatch, error) {
	checksumPath := GetChecksumFilePath(dir)
	data, err := os.ReadFile(checksumPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewWithContext(errors.ErrCodeNotFound, "checksums file not found",
				map[string]any{"path": checksumPath})
		}
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to read checksums", err,
			map[string]any{"path": checksumPath})
	}

	var mismatches []Mismatch
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "context cancelled", err)
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		expected, rel, ok := strings.Cut(text, "  ")
		if !ok {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "malformed checksum line",
				map[string]any{"path": checksumPath, "line": line})
		}

		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, filepath.FromSlash(rel))
		}
		actual, err := fileSum(path)
		if err != nil {
			if errors.CodeOf(err) == errors.ErrCodeNotFound {
				mismatches = append(mismatches, Mismatch{Path: rel, Expected: expected})
				continue
			}
			return nil, err
		}
		if actual != expected {
			mismatches = append(mismatches, Mismatch{Path: rel, Expected: expected, Actual: actual})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to scan checksums", err,
			map[string]any{"path": checksumPath})
	}
	return mismatches, nil
}

// GetChecksumFilePath returns the full path to the checksums.txt file
// in the given directory.
func GetChecksumFilePath(dir string) string {
	return filepath.Join(dir, ChecksumFileName)
}

func fileSum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errors.ErrCodeIO
		if os.IsNotExist(err) {
			code = errors.ErrCodeNotFound
		}
		return "", errors.WrapWithContext(code, "failed to read file for checksum", err,
			map[string]any{"path": path})
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
