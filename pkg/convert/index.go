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
	"os"
	"path/filepath"
	"slices"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/errors"
)

// Core kinds indexed before any provider runs.
const (
	KindService   = "Service"
	KindConfigMap = "ConfigMap"
)

// Index fills the service registry from Service manifests and materializes
// ConfigMap manifests under the output directory. Undecodable manifests are
// skipped with a warning; only file writes fail the run.
func Index(run *Context, manifests []*unstructured.Unstructured) error {
	for _, m := range manifests {
		switch m.GetKind() {
		case KindService:
			indexService(run, m)
		case KindConfigMap:
			if err := indexConfigMap(run, m); err != nil {
				return err
			}
		}
	}

	run.Logger().Debug("indexed core manifests",
		"services", len(run.Services),
		"configmaps", run.ConfigMaps.Len(),
	)
	return nil
}

func indexService(run *Context, m *unstructured.Unstructured) {
	var svc corev1.Service
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(m.Object, &svc); err != nil {
		run.Warn("Service '%s': cannot decode manifest (%v), skipping", nameOf(m), err)
		return
	}
	if svc.Name == "" {
		run.Warn("Service without metadata.name, skipping")
		return
	}
	if prev, ok := run.Services[svc.Name]; ok {
		run.Logger().Debug("service registered twice, keeping the last one",
			"name", svc.Name,
			"previous_namespace", prev.Namespace,
			"namespace", svc.Namespace,
		)
	}
	run.Services[svc.Name] = ServiceInfoFromService(&svc)
}

func indexConfigMap(run *Context, m *unstructured.Unstructured) error {
	var cm corev1.ConfigMap
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(m.Object, &cm); err != nil {
		run.Warn("ConfigMap '%s': cannot decode manifest (%v), skipping", nameOf(m), err)
		return nil
	}
	if cm.Name == "" {
		run.Warn("ConfigMap without metadata.name, skipping")
		return nil
	}

	dir := run.ConfigMapDir(cm.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to create configmap directory", err,
			map[string]any{"path": dir})
	}

	files := make(map[string][]byte, len(cm.Data)+len(cm.BinaryData))
	for k, v := range cm.Data {
		files[k] = []byte(v)
	}
	for k, v := range cm.BinaryData {
		files[k] = v
	}

	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
			run.Warn("ConfigMap '%s': invalid key '%s', skipping", cm.Name, key)
			continue
		}
		path := filepath.Join(dir, key)
		if err := os.WriteFile(path, files[key], 0o644); err != nil {
			return errors.WrapWithContext(errors.ErrCodeIO, "failed to write configmap file", err,
				map[string]any{"path": path})
		}
		run.AddFile(path)
	}

	run.ConfigMaps.Insert(cm.Name)
	return nil
}

func nameOf(m *unstructured.Unstructured) string {
	if n := m.GetName(); n != "" {
		return n
	}
	return "?"
}
