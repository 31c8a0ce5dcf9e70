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
	"fmt"

	"k8s.io/apimachinery/pkg/labels"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/convert"
)

// Target is where a ServiceMonitor's endpoints are scraped.
type Target struct {
	// ComposeName is the compose service the jobs point at.
	ComposeName string
	// Service is the Service matched by selector, or nil when the target
	// was found by name only.
	Service *convert.ServiceInfo
}

// HasService reports whether the target came from a selector match.
func (t Target) HasService() bool {
	return t.Service != nil
}

// Namespace returns the namespace used for the target host. A selector-matched
// service wins over the registry entry of the compose name.
func (t Target) Namespace(run *convert.Context) string {
	var ns string
	if info, ok := run.Services[t.ComposeName]; ok {
		ns = info.Namespace
	}
	if t.HasService() && t.Service.Namespace != "" {
		ns = t.Service.Namespace
	}
	return ns
}

// Host returns the target hostname, namespace-qualified when a namespace is known.
func (t Target) Host(run *convert.Context) string {
	if ns := t.Namespace(run); ns != "" {
		return fmt.Sprintf("%s.%s.svc.cluster.local", t.ComposeName, ns)
	}
	return t.ComposeName
}

// ResolveTarget maps a monitor to a compose service: first by label selector,
// then by name.
func ResolveTarget(mon *Monitor, run *convert.Context) (Target, bool) {
	if svc := FindService(mon.LabelMap(), run); svc != nil {
		return Target{ComposeName: run.Alias(svc.Name), Service: svc}, true
	}

	if name, ok := FallbackByName(mon, run); ok {
		return Target{ComposeName: name}, true
	}

	return Target{}, false
}

// FindService returns the first registered service, in registry key order,
// whose selector contains every matchLabels pair.
func FindService(matchLabels map[string]string, run *convert.Context) *convert.ServiceInfo {
	if len(matchLabels) == 0 {
		return nil
	}
	sel := labels.SelectorFromSet(matchLabels)

	for _, key := range run.ServiceNames() {
		info := run.Services[key]
		if len(info.Selector) == 0 {
			continue
		}
		if sel.Matches(labels.Set(info.Selector)) {
			return info
		}
	}
	return nil
}

// FallbackByName tries the monitor name and then each matchLabels value as a
// compose service name. Candidates go through the alias table first and are
// accepted when known as an alias key, alias value or registry key.
func FallbackByName(mon *Monitor, run *convert.Context) (string, bool) {
	known := make(map[string]struct{}, 2*len(run.Aliases)+len(run.Services))
	for k, v := range run.Aliases {
		known[k] = struct{}{}
		known[v] = struct{}{}
	}
	for k := range run.Services {
		known[k] = struct{}{}
	}

	candidates := make([]string, 0, 1+len(mon.MatchLabels))
	candidates = append(candidates, mon.Name)
	for _, l := range mon.MatchLabels {
		candidates = append(candidates, l.Value)
	}

	for _, c := range candidates {
		name := run.Alias(c)
		if _, ok := known[name]; ok {
			return name, true
		}
	}
	return "", false
}
