// Package graph turns a devicetree into drawable geometry: an icon
// category per node, tidy-tree positions on fixed depth bands, and the
// parent/child and phandle-reference edges between them. Everything here
// is pure computation in world coordinates; rendering and hit-testing
// live elsewhere.
package graph

import (
	"github.com/devicetree-tools/dtviz/pkg/devicetree"
)

// World-space grid constants.
const (
	IconSize   = 48.0  // icon box edge length
	HPitch     = 120.0 // horizontal width of one leaf slot
	BandHeight = 120.0 // vertical distance between depth bands
)

// Placement is the computed position of one node. X and Y are the top-left
// corner of its icon box in world coordinates.
type Placement struct {
	X    float64
	Y    float64
	Icon Icon
}

// Edge is a parent/child link in the tree.
type Edge struct {
	Parent *devicetree.Node
	Child  *devicetree.Node
}

// RefEdge is a phandle reference from one node's property to another node.
type RefEdge struct {
	From     *devicetree.Node
	To       *devicetree.Node
	Property string
}

// Rect is an axis-aligned box in world coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// LayoutResult holds the geometry for one computed tree. Placements is
// keyed by node pointer; Nodes preserves pre-order so iteration is
// deterministic. RefEdges is filled in separately by RefEdges.
type LayoutResult struct {
	Placements map[*devicetree.Node]Placement
	Nodes      []*devicetree.Node
	Edges      []Edge
	RefEdges   []RefEdge
	Bounds     Rect
}

// Compute lays out the tree rooted at root. Nodes at depth d sit on band
// d; each leaf occupies one pitch slot, each inner node the sum of its
// children's slots, and every parent is centered over its children's span.
// Children keep source order left to right. A nil root yields an empty
// result.
func Compute(root *devicetree.Node) LayoutResult {
	res := LayoutResult{Placements: map[*devicetree.Node]Placement{}}
	if root == nil {
		return res
	}
	l := &layouter{res: &res, extents: map[*devicetree.Node]float64{}}
	l.measure(root)
	l.place(root, 0, 0)
	res.Bounds = boundsOf(res)
	return res
}

type layouter struct {
	res     *LayoutResult
	extents map[*devicetree.Node]float64
}

// measure computes each subtree's horizontal extent bottom-up. A leaf is
// one pitch slot; an inner node spans the sum of its children.
func (l *layouter) measure(n *devicetree.Node) float64 {
	ext := 0.0
	for _, c := range n.Children {
		ext += l.measure(c)
	}
	if ext < HPitch {
		ext = HPitch
	}
	l.extents[n] = ext
	return ext
}

func (l *layouter) place(n *devicetree.Node, left float64, depth int) {
	ext := l.extents[n]
	l.res.Placements[n] = Placement{
		X:    left + ext/2 - IconSize/2,
		Y:    float64(depth) * BandHeight,
		Icon: Classify(n),
	}
	l.res.Nodes = append(l.res.Nodes, n)
	cur := left
	for _, c := range n.Children {
		l.res.Edges = append(l.res.Edges, Edge{Parent: n, Child: c})
		l.place(c, cur, depth+1)
		cur += l.extents[c]
	}
}

func boundsOf(res LayoutResult) Rect {
	if len(res.Nodes) == 0 {
		return Rect{}
	}
	first := res.Placements[res.Nodes[0]]
	b := Rect{MinX: first.X, MinY: first.Y, MaxX: first.X + IconSize, MaxY: first.Y + IconSize}
	for _, n := range res.Nodes[1:] {
		p := res.Placements[n]
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.X+IconSize > b.MaxX {
			b.MaxX = p.X + IconSize
		}
		if p.Y+IconSize > b.MaxY {
			b.MaxY = p.Y + IconSize
		}
	}
	return b
}
