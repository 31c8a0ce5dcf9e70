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
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Provider converts the manifests of one or more custom resource kinds.
// A new Provider is created for every run, so implementations may keep
// per-run state between Convert calls.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Kinds lists the handled kinds; Convert is called in this order.
	Kinds() []string
	// Priority orders providers; lower runs first.
	Priority() int
	// Convert handles all manifests of one kind.
	Convert(ctx context.Context, kind string, manifests []*unstructured.Unstructured, run *Context) (*Result, error)
}

// Factory creates a new Provider instance.
// Used for dynamic provider registration via init() functions.
type Factory func() Provider

// Global registry for provider factories.
// Providers register themselves via init() functions.
var (
	globalFactories = make(map[string]Factory)
	globalMu        sync.RWMutex
)

// Register registers a provider factory globally.
// Returns an error if a provider with the same name is already registered.
func Register(name string, factory Factory) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if _, exists := globalFactories[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	globalFactories[name] = factory
	return nil
}

// MustRegister is a convenience function that panics on registration error.
// Use this in init() functions where registration must succeed.
func MustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}

// RegisteredProviders returns the names of all globally registered providers.
func RegisteredProviders() []string {
	globalMu.RLock()
	defer globalMu.RUnlock()

	names := make([]string, 0, len(globalFactories))
	for name := range globalFactories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewProviders instantiates every registered provider, ordered by priority
// then name.
func NewProviders() []Provider {
	globalMu.RLock()
	defer globalMu.RUnlock()

	providers := make([]Provider, 0, len(globalFactories))
	for _, factory := range globalFactories {
		providers = append(providers, factory())
	}
	sortProviders(providers)
	return providers
}

func sortProviders(providers []Provider) {
	slices.SortStableFunc(providers, func(a, b Provider) int {
		if c := cmp.Compare(a.Priority(), b.Priority()); c != 0 {
			return c
		}
		return cmp.Compare(a.Name(), b.Name())
	})
}
