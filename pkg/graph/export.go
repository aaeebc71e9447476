package graph

import (
	"encoding/json"
	"os"

	"github.com/devicetree-tools/dtviz/pkg/devicetree"
	"github.com/devicetree-tools/dtviz/pkg/devicetree/bindings"
)

// Document is the serialization format for a computed layout: node
// positions and categories keyed by path, plus tree and reference edges.
// It backs the graph CLI subcommand and is stable for external tooling.
type Document struct {
	File  string     `json:"file,omitempty"`
	Nodes []NodeJSON `json:"nodes"`
	Edges []EdgeJSON `json:"edges"`
	Refs  []RefJSON  `json:"refs,omitempty"`
}

// NodeJSON is one positioned node.
type NodeJSON struct {
	Path string  `json:"path"`
	Name string  `json:"name"`
	Icon Icon    `json:"icon"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// EdgeJSON is a parent/child edge between node paths.
type EdgeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RefJSON is a phandle reference edge between node paths.
type RefJSON struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Property string `json:"property"`
}

// BuildDocument flattens a layout into its serialization form. Nodes keep
// the layout's pre-order.
func BuildDocument(file string, res LayoutResult) Document {
	doc := Document{
		File:  file,
		Nodes: make([]NodeJSON, 0, len(res.Nodes)),
		Edges: make([]EdgeJSON, 0, len(res.Edges)),
	}
	for _, n := range res.Nodes {
		p := res.Placements[n]
		doc.Nodes = append(doc.Nodes, NodeJSON{
			Path: n.Path,
			Name: n.Name,
			Icon: p.Icon,
			X:    p.X,
			Y:    p.Y,
		})
	}
	for _, e := range res.Edges {
		doc.Edges = append(doc.Edges, EdgeJSON{From: e.Parent.Path, To: e.Child.Path})
	}
	for _, r := range res.RefEdges {
		doc.Refs = append(doc.Refs, RefJSON{From: r.From.Path, To: r.To.Path, Property: r.Property})
	}
	return doc
}

// MarshalDocument serializes a Document to pretty-printed JSON.
func MarshalDocument(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDocument deserializes JSON bytes into a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, err
	}
	return d, nil
}

// WriteDocumentFile writes a Document to a JSON file.
func WriteDocumentFile(d Document, path string) error {
	data, err := MarshalDocument(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DocumentFor computes layout and reference edges for a parsed tree and
// returns the serialization form. The bindings index may be nil.
func DocumentFor(file string, root *devicetree.Node, idx *bindings.Index) Document {
	res := Compute(root)
	res.RefEdges = RefEdges(root, idx)
	return BuildDocument(file, res)
}
