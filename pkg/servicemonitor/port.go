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
	"strconv"

	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/helmfile2compose/h2c-servicemonitor/pkg/convert"
)

// PortKind tags the variant held by a PortRef.
type PortKind int

const (
	PortUnset PortKind = iota
	PortNumeric
	PortNamed
)

// PortRef is an endpoint port: unset, a number, or a service port name.
type PortRef struct {
	Kind   PortKind
	Number int32
	Name   string
}

// NumericPort returns a numeric PortRef.
func NumericPort(n int32) PortRef {
	return PortRef{Kind: PortNumeric, Number: n}
}

// NamedPort returns a named PortRef.
func NamedPort(name string) PortRef {
	return PortRef{Kind: PortNamed, Name: name}
}

// PortRefFrom classifies a manifest port value. Zero and the empty string
// count as unset; digit-only strings are numeric.
func PortRefFrom(v *intstr.IntOrString) PortRef {
	if v == nil {
		return PortRef{}
	}
	switch v.Type {
	case intstr.Int:
		if v.IntVal == 0 {
			return PortRef{}
		}
		return NumericPort(v.IntVal)
	case intstr.String:
		if v.StrVal == "" {
			return PortRef{}
		}
		if n, ok := parseDigits(v.StrVal); ok {
			return NumericPort(n)
		}
		return NamedPort(v.StrVal)
	}
	return PortRef{}
}

// String returns the token used in warnings.
func (p PortRef) String() string {
	switch p.Kind {
	case PortNumeric:
		return strconv.Itoa(int(p.Number))
	case PortNamed:
		return p.Name
	default:
		return "(none)"
	}
}

// ResolvePort maps a port reference to a number using the matched service.
// svc is nil when the monitor was resolved by name only, in which case just
// numeric references resolve.
func ResolvePort(ref PortRef, svc *convert.ServiceInfo) (int32, bool) {
	switch ref.Kind {
	case PortNumeric:
		return ref.Number, true

	case PortUnset:
		if svc == nil || len(svc.Ports) == 0 {
			return 0, false
		}
		return targetPortNumber(svc.Ports[0].Port, svc.Ports[0].TargetPort)

	case PortNamed:
		if svc == nil {
			return 0, false
		}
		for _, sp := range svc.Ports {
			if sp.Name == ref.Name {
				// A named targetPort points at a container port we cannot see.
				return targetPortNumber(sp.Port, sp.TargetPort)
			}
		}
	}
	return 0, false
}

// targetPortNumber returns the numeric target port, falling back to port
// when no target port is declared.
func targetPortNumber(port int32, target intstr.IntOrString) (int32, bool) {
	switch target.Type {
	case intstr.Int:
		if target.IntVal == 0 {
			return port, port != 0
		}
		return target.IntVal, true
	case intstr.String:
		if target.StrVal == "" {
			return port, port != 0
		}
		return parseDigits(target.StrVal)
	}
	return 0, false
}

func parseDigits(s string) (int32, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}
