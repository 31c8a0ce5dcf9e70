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
	"math"
	"slices"

	monitoringv1 "github.com/prometheus-operator/prometheus-operator/pkg/apis/monitoring/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/manifest"
)

const (
	defaultScheme   = "http"
	defaultPath     = "/metrics"
	defaultInterval = "30s"
	unknownName     = "?"
)

// parseRuntimeSpec reads image, version and retention from a Prometheus
// manifest. Fields that are missing or of the wrong type read as empty.
func parseRuntimeSpec(m *unstructured.Unstructured) RuntimeSpec {
	var prom monitoringv1.Prometheus
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(m.Object, &prom); err == nil {
		return RuntimeSpec{
			Image:     ptr.Deref(prom.Spec.Image, ""),
			Version:   prom.Spec.Version,
			Retention: string(prom.Spec.Retention),
		}
	}

	return RuntimeSpec{
		Image:     nestedString(m.Object, "spec", "image"),
		Version:   nestedString(m.Object, "spec", "version"),
		Retention: nestedString(m.Object, "spec", "retention"),
	}
}

// parseMonitor extracts the selector and endpoints of a ServiceMonitor.
// A missing name reads as "?".
func parseMonitor(m *unstructured.Unstructured) Monitor {
	mon := Monitor{Name: manifestName(m)}

	raw, _, _ := unstructured.NestedMap(m.Object, "spec", "selector", "matchLabels")
	mon.MatchLabels = orderedLabels(raw, manifest.MatchLabelsOrder(m))

	eps, _, _ := unstructured.NestedSlice(m.Object, "spec", "endpoints")
	for _, item := range eps {
		ep, ok := item.(map[string]any)
		if !ok {
			ep = map[string]any{}
		}
		mon.Endpoints = append(mon.Endpoints, parseEndpoint(ep))
	}

	return mon
}

// orderedLabels lists raw in the recorded source order. Keys without a
// recorded position follow, sorted.
func orderedLabels(raw map[string]any, order []string) []Label {
	out := make([]Label, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, k := range order {
		v, ok := raw[k]
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, Label{Key: k, Value: scalarString(v)})
	}

	rest := make([]string, 0, len(raw)-len(out))
	for k := range raw {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	for _, k := range rest {
		out = append(out, Label{Key: k, Value: scalarString(raw[k])})
	}
	return out
}

func parseEndpoint(ep map[string]any) Endpoint {
	out := Endpoint{
		Port:     PortRefFrom(portValue(ep["port"])),
		Scheme:   stringOr(ep, "scheme", defaultScheme),
		Path:     stringOr(ep, "path", defaultPath),
		Interval: stringOr(ep, "interval", defaultInterval),
	}

	if tls, ok := ep["tlsConfig"].(map[string]any); ok {
		out.TLS = &TLSSpec{
			CAConfigMap: nestedString(tls, "ca", "configMap", "name"),
			CAKey:       nestedString(tls, "ca", "configMap", "key"),
			ServerName:  nestedString(tls, "serverName"),
		}
	}

	return out
}

// portValue converts a decoded JSON port into an IntOrString.
func portValue(v any) *intstr.IntOrString {
	switch p := v.(type) {
	case int64:
		if p < math.MinInt32 || p > math.MaxInt32 {
			return ptr.To(intstr.FromString(fmt.Sprint(p)))
		}
		return ptr.To(intstr.FromInt32(int32(p)))
	case float64:
		if p != math.Trunc(p) || p < math.MinInt32 || p > math.MaxInt32 {
			return ptr.To(intstr.FromString(fmt.Sprint(p)))
		}
		return ptr.To(intstr.FromInt32(int32(p)))
	case string:
		return ptr.To(intstr.FromString(p))
	default:
		return nil
	}
}

func manifestName(m *unstructured.Unstructured) string {
	if n := m.GetName(); n != "" {
		return n
	}
	return unknownName
}

func stringOr(obj map[string]any, key, def string) string {
	if s, ok := obj[key].(string); ok && s != "" {
		return s
	}
	return def
}

func nestedString(obj map[string]any, fields ...string) string {
	v, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if !found || err != nil {
		return ""
	}
	return scalarString(v)
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
