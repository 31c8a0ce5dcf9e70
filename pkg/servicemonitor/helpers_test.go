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
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/convert"
	"github.com/helmfile2compose/h2c-servicemonitor/pkg/manifest"
)

func newTestRun(t *testing.T, opts ...convert.Option) *convert.Context {
	t.Helper()
	opts = append([]convert.Option{convert.WithOutputDir(t.TempDir())}, opts...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return convert.NewContext(convert.NewConfig(opts...), logger)
}

// mustManifest decodes a single YAML document through the manifest loader,
// so numbers arrive as int64 and matchLabels keep their source order.
func mustManifest(t *testing.T, doc string) *unstructured.Unstructured {
	t.Helper()
	objs, err := manifest.Decode(strings.NewReader(doc), t.Name())
	require.NoError(t, err)
	require.Len(t, objs, 1)
	return objs[0]
}

func servicePort(name string, port int32, target intstr.IntOrString) corev1.ServicePort {
	return corev1.ServicePort{Name: name, Port: port, TargetPort: target}
}

func addService(run *convert.Context, name, ns string, selector map[string]string, ports ...corev1.ServicePort) *convert.ServiceInfo {
	info := &convert.ServiceInfo{
		Name:      name,
		Namespace: ns,
		Selector:  selector,
		Ports:     ports,
	}
	run.Services[name] = info
	return info
}
