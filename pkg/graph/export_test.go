package graph

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestBuildDocument(t *testing.T) {
	root := parseTree(t, socDTS)
	res := Compute(root)
	res.RefEdges = RefEdges(root, nil)
	doc := BuildDocument("soc.dts", res)

	if doc.File != "soc.dts" {
		t.Errorf("file = %q", doc.File)
	}
	wantPaths := []string{"/", "/soc", "/soc/cpu0", "/soc/memory@80000000", "/soc/uart0"}
	if len(doc.Nodes) != len(wantPaths) {
		t.Fatalf("nodes = %d, want %d", len(doc.Nodes), len(wantPaths))
	}
	for i, n := range doc.Nodes {
		if n.Path != wantPaths[i] {
			t.Errorf("nodes[%d].path = %s, want %s", i, n.Path, wantPaths[i])
		}
	}
	if doc.Nodes[2].Icon != IconCPU || doc.Nodes[2].X != 36 {
		t.Errorf("cpu0 entry = %+v", doc.Nodes[2])
	}
	if len(doc.Edges) != 4 {
		t.Errorf("edges = %d, want 4", len(doc.Edges))
	}
	if doc.Edges[0].From != "/" || doc.Edges[0].To != "/soc" {
		t.Errorf("edge 0 = %+v", doc.Edges[0])
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	root := parseTree(t, refsDTS)
	doc := DocumentFor("refs.dts", root, nil)
	if len(doc.Refs) != 2 {
		t.Fatalf("refs = %d, want 2", len(doc.Refs))
	}

	data, err := MarshalDocument(doc)
	if err != nil {
		t.Fatalf("MarshalDocument: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"nodes\"") {
		t.Error("output not indented")
	}

	back, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument: %v", err)
	}
	if !reflect.DeepEqual(doc, back) {
		t.Error("document changed across marshal round trip")
	}
}

func TestWriteDocumentFile(t *testing.T) {
	root := parseTree(t, socDTS)
	doc := DocumentFor("soc.dts", root, nil)

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDocumentFile(doc, path); err != nil {
		t.Fatalf("WriteDocumentFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	back, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument: %v", err)
	}
	if len(back.Nodes) != len(doc.Nodes) {
		t.Errorf("nodes = %d, want %d", len(back.Nodes), len(doc.Nodes))
	}
}
