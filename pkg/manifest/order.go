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

package manifest

import (
	"strings"

	yamlv3 "gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// MatchLabelsOrderAnnotation holds the comma-separated keys of
// spec.selector.matchLabels in source order. Decoded objects are plain maps
// and do not keep it.
const MatchLabelsOrderAnnotation = "h2c.io/match-labels-order"

// MatchLabelsOrder returns the recorded matchLabels key order of u, or nil
// when none was recorded.
func MatchLabelsOrder(u *unstructured.Unstructured) []string {
	v, ok := u.GetAnnotations()[MatchLabelsOrderAnnotation]
	if !ok || v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// parseNode decodes doc into its root mapping node. Nil when the document
// is not a mapping.
func parseNode(doc []byte) *yamlv3.Node {
	var root yamlv3.Node
	if err := yamlv3.Unmarshal(doc, &root); err != nil {
		return nil
	}
	n := &root
	if n.Kind == yamlv3.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yamlv3.MappingNode {
		return nil
	}
	return n
}

// lookup walks mapping keys from n. Nil when a key is missing.
func lookup(n *yamlv3.Node, keys ...string) *yamlv3.Node {
	for _, key := range keys {
		if n == nil {
			return nil
		}
		if n.Kind == yamlv3.AliasNode {
			n = n.Alias
		}
		if n.Kind != yamlv3.MappingNode {
			return nil
		}
		var next *yamlv3.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				next = n.Content[i+1]
				break
			}
		}
		n = next
	}
	if n != nil && n.Kind == yamlv3.AliasNode {
		n = n.Alias
	}
	return n
}

// recordLabelOrder annotates u with the matchLabels key order found in n.
// Selectors with fewer than two keys have no order to record.
func recordLabelOrder(u *unstructured.Unstructured, n *yamlv3.Node) {
	labels := lookup(n, "spec", "selector", "matchLabels")
	if labels == nil || labels.Kind != yamlv3.MappingNode || len(labels.Content) < 4 {
		return
	}
	keys := make([]string, 0, len(labels.Content)/2)
	for i := 0; i+1 < len(labels.Content); i += 2 {
		keys = append(keys, labels.Content[i].Value)
	}

	anns := u.GetAnnotations()
	if anns == nil {
		anns = make(map[string]string, 1)
	}
	anns[MatchLabelsOrderAnnotation] = strings.Join(keys, ",")
	u.SetAnnotations(anns)
}

// listItemNode returns the node of items[idx] in a List document.
func listItemNode(n *yamlv3.Node, idx int) *yamlv3.Node {
	items := lookup(n, "items")
	if items == nil || items.Kind != yamlv3.SequenceNode || idx >= len(items.Content) {
		return nil
	}
	return items.Content[idx]
}
