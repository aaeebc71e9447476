package graph

import (
	"github.com/devicetree-tools/dtviz/pkg/devicetree"
	"github.com/devicetree-tools/dtviz/pkg/devicetree/bindings"
)

// defaultPhandleProps are property names treated as phandle references for
// every node, with or without a bindings schema.
var defaultPhandleProps = map[string]bool{
	"interrupt-parent": true,
	"clocks":           true,
	"resets":           true,
	"dmas":             true,
	"phys":             true,
	"power-domains":    true,
}

// RefEdges finds phandle references across the tree. A property
// contributes edges when its name is in the default reference set or when
// the bindings index marks it phandle-capable for the node's compatible.
// Label references (&label) resolve by label; numeric cells resolve
// through the tree's phandle map. Cells that resolve nowhere are skipped,
// as are self references; duplicate (from, to, property) triples collapse
// to one edge. The index may be nil.
func RefEdges(root *devicetree.Node, idx *bindings.Index) []RefEdge {
	if root == nil {
		return nil
	}
	phandles := root.PhandleMap()
	labels := map[string]*devicetree.Node{}
	root.Walk(func(n *devicetree.Node, _ int) {
		if n.Label != "" {
			labels[n.Label] = n
		}
	})

	var edges []RefEdge
	seen := map[RefEdge]bool{}
	add := func(from, to *devicetree.Node, prop string) {
		if to == nil || to == from {
			return
		}
		e := RefEdge{From: from, To: to, Property: prop}
		if seen[e] {
			return
		}
		seen[e] = true
		edges = append(edges, e)
	}

	root.Walk(func(n *devicetree.Node, _ int) {
		for _, p := range n.Properties {
			if !referencesPhandle(n, p.Name, idx) {
				continue
			}
			for _, part := range p.Value.Parts {
				if part.Kind == devicetree.PartRef {
					add(n, labels[part.Ref], p.Name)
					continue
				}
				for _, c := range part.Cells {
					if c.Ref != "" {
						add(n, labels[c.Ref], p.Name)
					} else if c.IsNumeric() {
						add(n, phandles[c.Val], p.Name)
					}
				}
			}
		}
	})
	return edges
}

func referencesPhandle(n *devicetree.Node, prop string, idx *bindings.Index) bool {
	if defaultPhandleProps[prop] {
		return true
	}
	if idx == nil {
		return false
	}
	for _, comp := range n.Compatible() {
		if idx.MayReferencePhandle(comp, prop) {
			return true
		}
	}
	return false
}
