package render

import (
	"image"
	"testing"

	"github.com/devicetree-tools/dtviz/pkg/devicetree"
	"github.com/devicetree-tools/dtviz/pkg/graph"
)

func TestHitAt(t *testing.T) {
	a := &devicetree.Node{Name: "a"}
	b := &devicetree.Node{Name: "b"}
	hits := []NodeHit{
		{Node: a, Bounds: image.Rect(100, 100, 148, 148)},
		{Node: b, Bounds: image.Rect(200, 100, 248, 148)},
	}

	if got := HitAt(hits, image.Pt(120, 120)); got != a {
		t.Errorf("hit inside a = %v, want a", got)
	}
	if got := HitAt(hits, image.Pt(200, 147)); got != b {
		t.Errorf("hit inside b = %v, want b", got)
	}

	// A click on empty canvas resolves to no node, so the caller keeps
	// its current selection.
	if got := HitAt(hits, image.Pt(170, 120)); got != nil {
		t.Errorf("miss between boxes = %v, want nil", got)
	}
	if got := HitAt(hits, image.Pt(0, 0)); got != nil {
		t.Errorf("miss far away = %v, want nil", got)
	}

	// Boxes are half-open; the max corner is outside.
	if got := HitAt(hits, image.Pt(148, 148)); got != nil {
		t.Errorf("max corner = %v, want nil", got)
	}
}

func TestHitAtTopmostWins(t *testing.T) {
	under := &devicetree.Node{Name: "under"}
	over := &devicetree.Node{Name: "over"}
	hits := []NodeHit{
		{Node: under, Bounds: image.Rect(100, 100, 148, 148)},
		{Node: over, Bounds: image.Rect(120, 120, 168, 168)},
	}

	// Later entries draw later, so the overlap belongs to them.
	if got := HitAt(hits, image.Pt(130, 130)); got != over {
		t.Errorf("overlap = %v, want over", got)
	}
	if got := HitAt(hits, image.Pt(105, 105)); got != under {
		t.Errorf("uncovered region = %v, want under", got)
	}
}

func TestHitAtEmpty(t *testing.T) {
	if got := HitAt(nil, image.Pt(10, 10)); got != nil {
		t.Errorf("nil hits = %v, want nil", got)
	}
	if got := HitAt([]NodeHit{}, image.Pt(10, 10)); got != nil {
		t.Errorf("empty hits = %v, want nil", got)
	}
}

func TestIconScreenRect(t *testing.T) {
	cam := NewCamera(800, 600)
	p := graph.Placement{X: 36, Y: 0}

	got := iconScreenRect(cam, p)
	want := image.Rect(436, 300, 484, 348)
	if got != want {
		t.Errorf("rect = %v, want %v", got, want)
	}

	// Zooming doubles the box size around the camera center.
	cam.CenterX = 60
	cam.CenterY = 24
	cam.Zoom = 2.0
	got = iconScreenRect(cam, p)
	want = image.Rect(352, 252, 448, 348)
	if got != want {
		t.Errorf("zoomed rect = %v, want %v", got, want)
	}
	if dx := got.Dx(); dx != 96 {
		t.Errorf("zoomed width = %d, want 96", dx)
	}
}
