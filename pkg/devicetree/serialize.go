package devicetree

import (
	"fmt"
	"strings"
)

// Serialize renders the tree rooted at root back to device tree source.
// Output is canonical: a /dts-v1/ header, two-space indentation, labels
// preserved, properties and children in source order. Children holding an
// unresolved &label override block are emitted as top-level &label blocks
// after the root, keeping the output parseable.
func Serialize(root *Node) string {
	var b strings.Builder
	b.WriteString("/dts-v1/;\n\n")
	b.WriteString("/ {\n")
	writeProps(&b, root, 1)
	for _, c := range root.Children {
		if !strings.HasPrefix(c.Name, "&") {
			writeNode(&b, c, 1)
		}
	}
	b.WriteString("};\n")
	for _, c := range root.Children {
		if strings.HasPrefix(c.Name, "&") {
			fmt.Fprintf(&b, "\n%s {\n", c.Name)
			writeProps(&b, c, 1)
			for _, cc := range c.Children {
				writeNode(&b, cc, 1)
			}
			b.WriteString("};\n")
		}
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Label != "" {
		fmt.Fprintf(b, "%s%s: %s {\n", indent, n.Label, n.Name)
	} else {
		fmt.Fprintf(b, "%s%s {\n", indent, n.Name)
	}
	writeProps(b, n, depth+1)
	for _, c := range n.Children {
		writeNode(b, c, depth+1)
	}
	b.WriteString(indent + "};\n")
}

func writeProps(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, p := range n.Properties {
		if p.Value.IsEmpty() {
			fmt.Fprintf(b, "%s%s;\n", indent, p.Name)
		} else {
			fmt.Fprintf(b, "%s%s = %s;\n", indent, p.Name, p.Value.Source())
		}
	}
}
