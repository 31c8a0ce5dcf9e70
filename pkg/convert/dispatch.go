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
	"context"
	"fmt"
	"slices"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
)

// Dispatcher groups manifests by kind and hands each group to the providers
// that declared it.
type Dispatcher struct {
	providers []Provider
}

// NewDispatcher creates a dispatcher over the given providers. With no
// providers, every globally registered provider is instantiated.
func NewDispatcher(providers ...Provider) *Dispatcher {
	if len(providers) == 0 {
		providers = NewProviders()
	} else {
		providers = slices.Clone(providers)
		sortProviders(providers)
	}
	return &Dispatcher{providers: providers}
}

// GroupByKind splits manifests by kind, keeping encounter order inside each kind.
func GroupByKind(manifests []*unstructured.Unstructured) map[string][]*unstructured.Unstructured {
	groups := make(map[string][]*unstructured.Unstructured)
	for _, m := range manifests {
		kind := m.GetKind()
		groups[kind] = append(groups[kind], m)
	}
	return groups
}

// Run indexes the core kinds, invokes every provider once per declared kind
// that has manifests and merges their results.
func (d *Dispatcher) Run(ctx context.Context, run *Context, manifests []*unstructured.Unstructured) (*Output, error) {
	start := time.Now()

	if err := Index(run, manifests); err != nil {
		return nil, err
	}

	groups := GroupByKind(manifests)
	services := make(map[string]*ComposeService)

	for _, p := range d.providers {
		for _, kind := range p.Kinds() {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, "conversion cancelled", err)
			}

			group := groups[kind]
			if len(group) == 0 {
				continue
			}

			run.Logger().Debug("converting",
				"provider", p.Name(),
				"kind", kind,
				"count", len(group),
			)

			res, err := p.Convert(ctx, kind, group, run)
			if err != nil {
				return nil, errors.WrapWithContext(errors.CodeOf(err),
					fmt.Sprintf("provider %s failed on %s", p.Name(), kind), err,
					map[string]any{"provider": p.Name(), "kind": kind})
			}
			if res.IsEmpty() {
				continue
			}
			for name, svc := range res.Services {
				if _, exists := services[name]; exists {
					run.Warn("service '%s' produced twice, keeping output of %s", name, p.Name())
				}
				services[name] = svc
			}
		}
	}

	elapsed := time.Since(start)
	run.Metrics().ObserveRun(elapsed)

	return &Output{
		Compose:   Compose{Services: services},
		Warnings:  slices.Clone(run.Warnings),
		Files:     run.Files(),
		Duration:  elapsed,
		OutputDir: run.Config().OutputDir(),
	}, nil
}
