// Package collector flattens a selection into the ordered list of paintable nodes to convert.
package collector

import "github.com/aretw0/recolor/pkg/domain"

// Collect walks the selection roots and returns every eligible paintable node.
//
// For each root, the root itself is appended when its kind is eligible and it exposes
// both paint lists; independently, when the root can enumerate descendants, every
// eligible descendant exposing both paint lists is appended after it. Nodes are not
// deduplicated: a node reachable from two selected roots appears twice.
func Collect(roots []domain.Node) []domain.Paintable {
	var nodes []domain.Paintable
	for _, root := range roots {
		if root == nil {
			continue
		}
		if root.Kind().Eligible() {
			if p, ok := root.(domain.Paintable); ok {
				nodes = append(nodes, p)
			}
		}
		if c, ok := root.(domain.Composite); ok {
			for _, d := range c.FindAll(domain.EligibleKinds) {
				if p, ok := d.(domain.Paintable); ok {
					nodes = append(nodes, p)
				}
			}
		}
	}
	return nodes
}
