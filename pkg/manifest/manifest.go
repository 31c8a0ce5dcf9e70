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

package manifest

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	k8sruntime "k8s.io/apimachinery/pkg/runtime"
	utiljson "k8s.io/apimachinery/pkg/util/json"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/yaml"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
)

// Option configures a Load call.
type Option func(*loader)

type loader struct {
	logger      *slog.Logger
	fetcher     *Fetcher
	concurrency int
}

// WithLogger sets the logger used for skipped documents.
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithFetcher sets the client used for http(s) sources.
func WithFetcher(f *Fetcher) Option {
	return func(l *loader) {
		if f != nil {
			l.fetcher = f
		}
	}
}

// WithConcurrency bounds the number of sources read at once.
func WithConcurrency(n int) Option {
	return func(l *loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// Load reads every source and returns the decoded objects in source order.
func Load(ctx context.Context, sources []string, opts ...Option) ([]*unstructured.Unstructured, error) {
	l := &loader{
		logger:      slog.Default(),
		fetcher:     NewFetcher(),
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(l)
	}

	var files []string
	for _, src := range sources {
		expanded, err := expand(src)
		if err != nil {
			return nil, err
		}
		files = append(files, expanded...)
	}

	results := make([][]*unstructured.Unstructured, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, file := range files {
		g.Go(func() error {
			objs, err := l.loadOne(gctx, file)
			if err != nil {
				return err
			}
			results[i] = objs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*unstructured.Unstructured
	for _, objs := range results {
		out = append(out, objs...)
	}
	l.logger.Debug("manifests loaded",
		"sources", len(files),
		"objects", len(out),
	)
	return out, nil
}

func (l *loader) loadOne(ctx context.Context, source string) ([]*unstructured.Unstructured, error) {
	var (
		data []byte
		err  error
	)
	if isURL(source) {
		data, err = l.fetcher.Fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			err = errors.WrapWithContext(errors.ErrCodeIO, "failed to read manifest", err,
				map[string]any{"source": source})
		}
	}
	if err != nil {
		return nil, err
	}
	return decode(bytes.NewReader(data), source, l.logger)
}

// Decode splits r into YAML documents and converts each one into an object.
func Decode(r io.Reader, source string) ([]*unstructured.Unstructured, error) {
	return decode(r, source, slog.Default())
}

func decode(r io.Reader, source string, logger *slog.Logger) ([]*unstructured.Unstructured, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(r))
	var out []*unstructured.Unstructured
	for idx := 0; ; idx++ {
		doc, err := reader.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to split YAML documents", err,
				map[string]any{"source": source, "document": idx})
		}
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}

		data, err := yaml.YAMLToJSON(doc)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to parse YAML document", err,
				map[string]any{"source": source, "document": idx})
		}
		var obj map[string]any
		if err := utiljson.Unmarshal(data, &obj); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("document %d is not an object", idx), err,
				map[string]any{"source": source})
		}
		if obj == nil {
			continue
		}

		u := &unstructured.Unstructured{Object: obj}
		if u.GetKind() == "" {
			logger.Debug("skipping document without kind", "source", source, "document", idx)
			continue
		}
		node := parseNode(doc)
		if u.IsList() {
			item := 0
			err := u.EachListItem(func(obj k8sruntime.Object) error {
				defer func() { item++ }()
				if iu, ok := obj.(*unstructured.Unstructured); ok && iu.GetKind() != "" {
					recordLabelOrder(iu, listItemNode(node, item))
					out = append(out, iu)
				}
				return nil
			})
			if err != nil {
				return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to read list items", err,
					map[string]any{"source": source, "document": idx})
			}
			continue
		}
		recordLabelOrder(u, node)
		out = append(out, u)
	}
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func isManifestFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// expand turns a source into the list of files to read.
func expand(source string) ([]string, error) {
	if isURL(source) {
		return []string{source}, nil
	}
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewWithContext(errors.ErrCodeNotFound, "input not found",
				map[string]any{"source": source})
		}
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to stat input", err,
			map[string]any{"source": source})
	}
	if !info.IsDir() {
		return []string{source}, nil
	}

	var files []string
	err = filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isManifestFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to walk input directory", err,
			map[string]any{"source": source})
	}
	return files, nil
}
