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
	"maps"
	"slices"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// ServiceInfo is the registry view of a Kubernetes Service.
type ServiceInfo struct {
	Name      string
	Namespace string
	Selector  map[string]string
	Ports     []corev1.ServicePort
}

// ServiceInfoFromService builds a registry entry from a decoded Service.
func ServiceInfoFromService(svc *corev1.Service) *ServiceInfo {
	return &ServiceInfo{
		Name:      svc.Name,
		Namespace: svc.Namespace,
		Selector:  maps.Clone(svc.Spec.Selector),
		Ports:     slices.Clone(svc.Spec.Ports),
	}
}

// ExposesPort reports whether any declared port or numeric target port
// equals port.
func (s *ServiceInfo) ExposesPort(port int32) bool {
	for _, p := range s.Ports {
		if p.Port == port {
			return true
		}
		if p.TargetPort.Type == intstr.Int && p.TargetPort.IntVal == port {
			return true
		}
	}
	return false
}
