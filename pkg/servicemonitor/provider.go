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
	"context"
	"fmt"

	monitoringv1 "github.com/prometheus-operator/prometheus-operator/pkg/apis/monitoring/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/convert"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/metrics"
)

const (
	// Name identifies the provider.
	Name = "servicemonitor"
	// Priority places the provider after workload converters, so the
	// registry and alias table are complete.
	Priority = 600
)

func init() {
	convert.MustRegister(Name, func() convert.Provider {
		return New()
	})
}

// Provider converts Prometheus and ServiceMonitor resources into a
// Prometheus compose service.
type Provider struct {
	// runtime is set by the first Prometheus manifest and never replaced.
	runtime *RuntimeSpec
}

// New creates a provider with no indexed Prometheus resource.
func New() *Provider {
	return &Provider{}
}

// Name implements convert.Provider.
func (p *Provider) Name() string {
	return Name
}

// Kinds implements convert.Provider. Prometheus comes first so its runtime
// spec is known when monitors are processed.
func (p *Provider) Kinds() []string {
	return []string{monitoringv1.PrometheusesKind, monitoringv1.ServiceMonitorsKind}
}

// Priority implements convert.Provider.
func (p *Provider) Priority() int {
	return Priority
}

// Runtime returns the indexed runtime spec, or nil.
func (p *Provider) Runtime() *RuntimeSpec {
	return p.runtime
}

// Convert implements convert.Provider.
func (p *Provider) Convert(_ context.Context, kind string, manifests []*unstructured.Unstructured, run *convert.Context) (*convert.Result, error) {
	switch kind {
	case monitoringv1.PrometheusesKind:
		p.IndexPrometheus(manifests, run)
		return convert.NewResult(), nil
	case monitoringv1.ServiceMonitorsKind:
		return p.ConvertMonitors(manifests, run)
	default:
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s provider does not handle kind %s", Name, kind))
	}
}

// IndexPrometheus keeps the runtime spec of the first Prometheus manifest
// and warns about every other one.
func (p *Provider) IndexPrometheus(manifests []*unstructured.Unstructured, run *convert.Context) {
	for _, m := range manifests {
		if p.runtime == nil {
			spec := parseRuntimeSpec(m)
			p.runtime = &spec
			run.Logger().Debug("indexed Prometheus resource",
				"name", manifestName(m),
				"image", spec.Image,
				"version", spec.Version,
				"retention", spec.Retention,
			)
			continue
		}
		run.Warn("ignoring extra Prometheus CR '%s' (only the first is used)", manifestName(m))
	}
}

// ConvertMonitors resolves every ServiceMonitor to scrape jobs, writes the
// scrape config and returns the Prometheus service. No service is returned
// when no job could be built.
func (p *Provider) ConvertMonitors(manifests []*unstructured.Unstructured, run *convert.Context) (*convert.Result, error) {
	if len(manifests) == 0 {
		return convert.NewResult(), nil
	}

	ex := newExcluder(run.Config().Exclude(), run.Logger())
	var (
		jobs     []ScrapeJob
		caMounts []string
	)

	for _, m := range manifests {
		mon := parseMonitor(m)

		if len(mon.MatchLabels) == 0 {
			run.Warn("ServiceMonitor '%s': no selector.matchLabels, skipping", mon.Name)
			run.Metrics().MonitorSkipped(metrics.SkipReasonNoSelector)
			continue
		}

		target, ok := ResolveTarget(&mon, run)
		if !ok {
			run.Warn("ServiceMonitor '%s': no K8s Service matches labels {%s}, skipping",
				mon.Name, labels.Set(mon.LabelMap()).String())
			run.Metrics().MonitorSkipped(metrics.SkipReasonUnresolved)
			continue
		}

		if ex.Excluded(target.ComposeName) {
			run.Logger().Debug("ServiceMonitor target excluded",
				"monitor", mon.Name,
				"service", target.ComposeName,
			)
			run.Metrics().MonitorSkipped(metrics.SkipReasonExcluded)
			continue
		}

		for idx := range mon.Endpoints {
			job, mounts, ok := BuildScrapeJob(&mon, idx, target, run)
			if !ok {
				continue
			}
			jobs = append(jobs, *job)
			caMounts = append(caMounts, mounts...)
			run.Metrics().ScrapeJobEmitted()
		}
	}

	if len(jobs) == 0 {
		run.Warn("No resolvable ServiceMonitors found")
		return convert.NewResult(), nil
	}

	if err := WriteScrapeConfig(jobs, run); err != nil {
		return nil, err
	}

	svc := BuildService(p.runtime, caMounts, run)
	RegisterSelf(run)

	res := convert.NewResult()
	res.Services[ServiceName] = svc
	return res, nil
}
