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
	"path"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/convert"
)

const (
	caMountRoot  = "/etc/prometheus/ca"
	defaultCAKey = "ca-certificates.crt"
)

// BuildTLSConfig assembles the tls_config of an https endpoint and the bind
// mounts its CA needs. The returned config is nil when nothing could be set.
func BuildTLSConfig(monitor string, spec *TLSSpec, run *convert.Context) (*TLSConfig, []string) {
	if spec == nil {
		return nil, nil
	}

	cfg := &TLSConfig{}
	var mounts []string

	if name := spec.CAConfigMap; name != "" {
		key := spec.CAKey
		if key == "" {
			key = defaultCAKey
		}
		if run.ConfigMaps.Has(name) {
			containerPath := path.Join(caMountRoot, name, key)
			cfg.CAFile = containerPath
			mounts = append(mounts, fmt.Sprintf("./%s:%s:ro",
				path.Join(convert.ConfigMapsDir, name, key), containerPath))
		} else {
			run.Warn("ServiceMonitor '%s': CA configmap '%s' not found, TLS job generated without ca_file",
				monitor, name)
		}
	}

	cfg.ServerName = spec.ServerName

	if cfg.IsEmpty() {
		return nil, mounts
	}
	return cfg, mounts
}
