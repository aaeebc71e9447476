package devicetree

import (
	"fmt"
	"regexp"
	"strings"
)

// ExportFragment renders the subtree rooted at node as a .dtsi fragment.
// Nodes inside the subtree that carry a phandle get a generated label and
// their phandle property is dropped; numeric cells matching one of those
// phandles are rewritten to &label references. References to phandles
// outside the subtree stay numeric.
func ExportFragment(node *Node) string {
	phToNode := node.PhandleMap()

	labels := map[*Node]string{}
	used := map[string]bool{}
	// Stable assignment order: subtree pre-order, not map order.
	node.Walk(func(n *Node, _ int) {
		ph, ok := n.Phandle()
		if !ok || phToNode[ph] != n {
			return
		}
		base := sanitizeLabel(n.BaseName())
		candidate := fmt.Sprintf("%s_%x", base, ph)
		for i := 2; used[candidate]; i++ {
			candidate = fmt.Sprintf("%s_%x_%d", base, ph, i)
		}
		labels[n] = candidate
		used[candidate] = true
	})

	var b strings.Builder
	fmt.Fprintf(&b, "// Exported from path: %s\n", node.Path)
	writeExportNode(&b, node, 0, labels, phToNode)
	return b.String()
}

func writeExportNode(b *strings.Builder, n *Node, depth int, labels map[*Node]string, phToNode map[uint64]*Node) {
	indent := strings.Repeat("  ", depth)
	prefix := ""
	if lbl := labels[n]; lbl != "" {
		prefix = lbl + ": "
	}
	fmt.Fprintf(b, "%s%s%s {\n", indent, prefix, n.Name)

	for _, p := range n.Properties {
		if p.Name == "phandle" || p.Name == "linux,phandle" {
			continue
		}
		if p.Value.IsEmpty() {
			fmt.Fprintf(b, "%s  %s;\n", indent, p.Name)
			continue
		}
		v := rewritePhandleRefs(p.Value, phToNode, labels)
		fmt.Fprintf(b, "%s  %s = %s;\n", indent, p.Name, v.Source())
	}

	for _, c := range n.Children {
		writeExportNode(b, c, depth+1, labels, phToNode)
	}

	fmt.Fprintf(b, "%s};\n", indent)
}

// rewritePhandleRefs returns a copy of v with numeric cells that match a
// labeled subtree phandle replaced by &label cells.
func rewritePhandleRefs(v Value, phToNode map[uint64]*Node, labels map[*Node]string) Value {
	out := Value{Parts: make([]Part, len(v.Parts))}
	copy(out.Parts, v.Parts)
	for i, p := range out.Parts {
		if p.Kind != PartCells {
			continue
		}
		cells := make([]Cell, len(p.Cells))
		copy(cells, p.Cells)
		for j, c := range cells {
			if !c.IsNumeric() {
				continue
			}
			target := phToNode[c.Val]
			if target == nil {
				continue
			}
			if lbl := labels[target]; lbl != "" {
				cells[j] = Cell{Ref: lbl}
			}
		}
		out.Parts[i].Cells = cells
	}
	return out
}

var labelBody = regexp.MustCompile(`[^A-Za-z0-9_]`)

// sanitizeLabel maps a node base name onto the label charset
// [A-Za-z_][A-Za-z0-9_]*.
func sanitizeLabel(name string) string {
	s := labelBody.ReplaceAllString(name, "_")
	if s == "" {
		return "node"
	}
	first := s[0]
	if !(first == '_' || (first >= 'A' && first <= 'Z') || (first >= 'a' && first <= 'z')) {
		s = "_" + s
	}
	return s
}
