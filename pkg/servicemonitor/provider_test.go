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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	monitoringv1 "github.com/prometheus-operator/prometheus-operator/pkg/apis/monitoring/v1"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/convert"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
)

const apiService = `
apiVersion: v1
kind: Service
metadata:
  name: api
  namespace: prod
spec:
  selector:
    app: api
  ports:
    - name: http
      port: 8080
      targetPort: 8080
`

const apiMonitor = `
apiVersion: monitoring.coreos.com/v1
kind: ServiceMonitor
metadata:
  name: api
spec:
  selector:
    matchLabels:
      app: api
  endpoints:
    - port: http
      path: /metrics
`

func runDispatcher(t *testing.T, run *convert.Context, docs ...string) *convert.Output {
	t.Helper()
	manifests := make([]*unstructured.Unstructured, 0, len(docs))
	for _, d := range docs {
		manifests = append(manifests, mustManifest(t, d))
	}
	out, err := convert.NewDispatcher(New()).Run(context.Background(), run, manifests)
	require.NoError(t, err)
	return out
}

func readScrapeConfig(t *testing.T, run *convert.Context) ScrapeConfig {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(run.ConfigMapDir(ScrapeConfigName), ScrapeConfigFile))
	require.NoError(t, err)
	var cfg ScrapeConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	return cfg
}

func TestProviderRegistered(t *testing.T) {
	assert.Contains(t, convert.RegisteredProviders(), Name)
}

func TestProviderKinds(t *testing.T) {
	p := New()
	assert.Equal(t, []string{"Prometheus", "ServiceMonitor"}, p.Kinds())
	assert.Equal(t, Priority, p.Priority())
	assert.Equal(t, Name, p.Name())
}

func TestProviderUnknownKind(t *testing.T) {
	_, err := New().Convert(context.Background(), "PodMonitor", nil, newTestRun(t))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}

func TestScenarioFullStack(t *testing.T) {
	run := newTestRun(t)
	out := runDispatcher(t, run, `
apiVersion: monitoring.coreos.com/v1
kind: Prometheus
metadata:
  name: main
spec:
  image: quay.io/prometheus/prometheus
  version: "2.45.0"
  retention: 30d
`, apiService, apiMonitor)

	assert.Empty(t, out.Warnings)
	require.Contains(t, out.Compose.Services, ServiceName)
	svc := out.Compose.Services[ServiceName]
	assert.Equal(t, "quay.io/prometheus/prometheus:v2.45.0", svc.Image)
	assert.Contains(t, svc.Command, "--storage.tsdb.retention.time=30d")

	want := ScrapeConfig{
		Global: GlobalConfig{ScrapeInterval: "30s"},
		ScrapeConfigs: []ScrapeJob{{
			JobName:        "api",
			MetricsPath:    "/metrics",
			ScrapeInterval: "30s",
			Scheme:         "http",
			StaticConfigs:  []StaticConfig{{Targets: []string{"api.prod.svc.cluster.local:8080"}}},
		}},
	}
	if diff := cmp.Diff(want, readScrapeConfig(t, run)); diff != "" {
		t.Errorf("scrape config mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, testutil.GatherAndCompare(run.Metrics().Gatherer(), strings.NewReader(`
# HELP h2c_scrape_jobs_total Total number of scrape jobs written to the generated Prometheus config
# TYPE h2c_scrape_jobs_total counter
h2c_scrape_jobs_total 1
`), "h2c_scrape_jobs_total"))
}

func TestScenarioDefaults(t *testing.T) {
	run := newTestRun(t)
	out := runDispatcher(t, run, apiService, apiMonitor)

	svc := out.Compose.Services[ServiceName]
	require.NotNil(t, svc)
	assert.Equal(t, "prom/prometheus:latest", svc.Image)
	assert.Contains(t, svc.Command, "--storage.tsdb.retention.time=15d")
	assert.Equal(t, []string{
		"No Prometheus CR found in manifests, using defaults (image=prom/prometheus:latest, retention=15d)",
	}, out.Warnings)
}

func TestScenarioUnresolvedMonitor(t *testing.T) {
	run := newTestRun(t)
	out := runDispatcher(t, run, `
apiVersion: monitoring.coreos.com/v1
kind: ServiceMonitor
metadata:
  name: ghost
spec:
  selector:
    matchLabels:
      app: phantom
  endpoints:
    - port: http
`)

	assert.Empty(t, out.Compose.Services)
	assert.Equal(t, []string{
		"ServiceMonitor 'ghost': no K8s Service matches labels {app=phantom}, skipping",
		"No resolvable ServiceMonitors found",
	}, out.Warnings)
	assert.NoFileExists(t, filepath.Join(run.ConfigMapDir(ScrapeConfigName), ScrapeConfigFile))
}

func TestScenarioMissingCA(t *testing.T) {
	run := newTestRun(t)
	out := runDispatcher(t, run, apiService, `
apiVersion: monitoring.coreos.com/v1
kind: ServiceMonitor
metadata:
  name: secure
spec:
  selector:
    matchLabels:
      app: api
  endpoints:
    - port: "8443"
      scheme: https
      tlsConfig:
        ca:
          configMap:
            name: missing-ca
`)

	require.Contains(t, out.Compose.Services, ServiceName)
	assert.Contains(t, out.Warnings,
		"ServiceMonitor 'secure': CA configmap 'missing-ca' not found, TLS job generated without ca_file")

	cfg := readScrapeConfig(t, run)
	require.Len(t, cfg.ScrapeConfigs, 1)
	job := cfg.ScrapeConfigs[0]
	assert.Equal(t, "https", job.Scheme)
	assert.Nil(t, job.TLSConfig)
}

func TestCAMountsDeduplicated(t *testing.T) {
	run := newTestRun(t)
	out := runDispatcher(t, run, apiService, `
apiVersion: v1
kind: ConfigMap
metadata:
  name: root-ca
data:
  ca.crt: "-----BEGIN CERTIFICATE-----"
`, `
apiVersion: monitoring.coreos.com/v1
kind: ServiceMonitor
metadata:
  name: secure
spec:
  selector:
    matchLabels:
      app: api
  endpoints:
    - port: 8443
      scheme: https
      tlsConfig:
        ca:
          configMap:
            name: root-ca
            key: ca.crt
    - port: 9443
      scheme: https
      tlsConfig:
        ca:
          configMap:
            name: root-ca
            key: ca.crt
`)

	svc := out.Compose.Services[ServiceName]
	require.NotNil(t, svc)
	assert.Equal(t, []string{
		"./configmaps/prometheus-scrape-config/prometheus.yml:/etc/prometheus/prometheus.yml:ro",
		"./configmaps/root-ca/ca.crt:/etc/prometheus/ca/root-ca/ca.crt:ro",
	}, svc.Volumes)

	cfg := readScrapeConfig(t, run)
	require.Len(t, cfg.ScrapeConfigs, 2)
	assert.Equal(t, "secure-0", cfg.ScrapeConfigs[0].JobName)
	assert.Equal(t, "secure-1", cfg.ScrapeConfigs[1].JobName)
	assert.Equal(t, "/etc/prometheus/ca/root-ca/ca.crt", cfg.ScrapeConfigs[1].TLSConfig.CAFile)
}

func TestExclusionIsSilent(t *testing.T) {
	run := newTestRun(t, convert.WithExclude("ap*"))
	p := New()
	p.IndexPrometheus([]*unstructured.Unstructured{mustManifest(t, `
apiVersion: monitoring.coreos.com/v1
kind: Prometheus
metadata:
  name: main
`)}, run)
	addService(run, "api", "prod", map[string]string{"app": "api"})

	// The endpoint port would not resolve; exclusion must hide that too.
	res, err := p.ConvertMonitors([]*unstructured.Unstructured{mustManifest(t, `
apiVersion: monitoring.coreos.com/v1
kind: ServiceMonitor
metadata:
  name: api
spec:
  selector:
    matchLabels:
      app: api
  endpoints:
    - port: nope
      scheme: https
      tlsConfig:
        ca:
          configMap:
            name: missing
`)}, run)
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
	assert.Equal(t, []string{"No resolvable ServiceMonitors found"}, run.Warnings)
}

func TestExtraPrometheusIgnored(t *testing.T) {
	run := newTestRun(t)
	p := New()
	p.IndexPrometheus([]*unstructured.Unstructured{
		mustManifest(t, "apiVersion: monitoring.coreos.com/v1\nkind: Prometheus\nmetadata:\n  name: first\nspec:\n  retention: 1d\n"),
		mustManifest(t, "apiVersion: monitoring.coreos.com/v1\nkind: Prometheus\nmetadata:\n  name: second\nspec:\n  retention: 2d\n"),
	}, run)

	require.NotNil(t, p.Runtime())
	assert.Equal(t, "1d", p.Runtime().Retention)
	assert.Equal(t, []string{"ignoring extra Prometheus CR 'second' (only the first is used)"}, run.Warnings)
}

func TestMonitorWithoutSelector(t *testing.T) {
	run := newTestRun(t)
	_, err := New().ConvertMonitors([]*unstructured.Unstructured{mustManifest(t, `
apiVersion: monitoring.coreos.com/v1
kind: ServiceMonitor
metadata:
  name: bare
spec:
  endpoints:
    - port: 80
`)}, run)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ServiceMonitor 'bare': no selector.matchLabels, skipping",
		"No resolvable ServiceMonitors found",
	}, run.Warnings)
}

func TestPartialEndpointFailure(t *testing.T) {
	run := newTestRun(t)
	addService(run, "api", "", map[string]string{"app": "api"},
		servicePort("http", 80, intstr.FromInt32(8080)))

	res, err := New().ConvertMonitors([]*unstructured.Unstructured{mustManifest(t, `
apiVersion: monitoring.coreos.com/v1
kind: ServiceMonitor
metadata:
  name: api
spec:
  selector:
    matchLabels:
      app: api
  endpoints:
    - port: grpc
    - port: http
`)}, run)
	require.NoError(t, err)
	require.False(t, res.IsEmpty())

	cfg := readScrapeConfig(t, run)
	require.Len(t, cfg.ScrapeConfigs, 1)
	assert.Equal(t, "api-1", cfg.ScrapeConfigs[0].JobName)
	assert.Equal(t, []string{"api:8080"}, cfg.ScrapeConfigs[0].StaticConfigs[0].Targets)
	assert.Contains(t, run.Warnings,
		"ServiceMonitor 'api': could not resolve port 'grpc' to a number, skipping endpoint")
}

func TestSelfRegistrationAfterConvert(t *testing.T) {
	run := newTestRun(t)
	addService(run, "api", "", map[string]string{"app": "api"},
		servicePort("http", 80, intstr.FromInt32(8080)))
	addService(run, "stack-prometheus", "monitoring", map[string]string{"app": "prometheus"},
		servicePort("web", 9090, intstr.FromInt32(9090)))

	_, err := New().ConvertMonitors([]*unstructured.Unstructured{mustManifest(t, apiMonitor)}, run)
	require.NoError(t, err)
	assert.Equal(t, ServiceName, run.Alias("stack-prometheus"))
	assert.Contains(t, run.Services, ServiceName)
}

func TestConvertMonitorsWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	run := newTestRun(t, convert.WithOutputDir(blocker))
	addService(run, "api", "", map[string]string{"app": "api"},
		servicePort("http", 80, intstr.FromInt32(8080)))

	_, err := New().ConvertMonitors([]*unstructured.Unstructured{mustManifest(t, apiMonitor)}, run)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIO, errors.CodeOf(err))
}

func TestKindConstants(t *testing.T) {
	assert.Equal(t, "Prometheus", monitoringv1.PrometheusesKind)
	assert.Equal(t, "ServiceMonitor", monitoringv1.ServiceMonitorsKind)
}
