package render

import (
	"math"
	"testing"

	"github.com/devicetree-tools/dtviz/pkg/graph"
)

const tolerance = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestWorldScreenRoundTrip(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.CenterX = 100
	cam.CenterY = 50
	cam.Zoom = 2.0

	points := [][2]float64{{0, 0}, {100, 50}, {-300, 950}, {36, 156}}
	for _, p := range points {
		sx, sy := cam.WorldToScreen(p[0], p[1])
		wx, wy := cam.ScreenToWorld(sx, sy)
		if !near(wx, p[0]) || !near(wy, p[1]) {
			t.Errorf("round trip (%v, %v) -> (%v, %v)", p[0], p[1], wx, wy)
		}
	}

	// Camera center maps to screen center.
	sx, sy := cam.WorldToScreen(100, 50)
	if !near(sx, 400) || !near(sy, 300) {
		t.Errorf("center at (%v, %v), want (400, 300)", sx, sy)
	}
}

func TestPanMovesCenter(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Zoom = 2.0
	cam.Pan(30, -20)
	if !near(cam.CenterX, -15) || !near(cam.CenterY, 10) {
		t.Errorf("center = (%v, %v), want (-15, 10)", cam.CenterX, cam.CenterY)
	}

	// Pan is unbounded; pile on a huge offset.
	cam.Pan(-1e7, 1e7)
	if math.IsNaN(cam.CenterX) || math.IsInf(cam.CenterX, 0) {
		t.Errorf("center x degenerate: %v", cam.CenterX)
	}
}

func TestZoomAtKeepsCursorStationary(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.CenterX = 200
	cam.CenterY = 100

	cursorX, cursorY := 650.0, 120.0
	wantX, wantY := cam.ScreenToWorld(cursorX, cursorY)

	cam.ZoomAt(cursorX, cursorY, 1.15)
	gotX, gotY := cam.ScreenToWorld(cursorX, cursorY)
	if !near(gotX, wantX) || !near(gotY, wantY) {
		t.Errorf("world under cursor moved: (%v, %v) -> (%v, %v)", wantX, wantY, gotX, gotY)
	}

	cam.ZoomAt(cursorX, cursorY, 1/1.15)
	gotX, gotY = cam.ScreenToWorld(cursorX, cursorY)
	if !near(gotX, wantX) || !near(gotY, wantY) {
		t.Errorf("world under cursor moved after zoom out: (%v, %v)", gotX, gotY)
	}
}

func TestZoomInvertible(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Zoom = 1.5

	cam.ZoomAt(400, 300, 2.0)
	cam.ZoomAt(400, 300, 0.5)
	if !near(cam.Zoom, 1.5) {
		t.Errorf("zoom = %v, want 1.5", cam.Zoom)
	}
}

func TestZoomClamped(t *testing.T) {
	cam := NewCamera(800, 600)

	cam.ZoomAt(400, 300, 1e6)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("zoom = %v, want clamped to %v", cam.Zoom, cam.MaxZoom)
	}
	cam.ZoomAt(400, 300, 1e-9)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("zoom = %v, want clamped to %v", cam.Zoom, cam.MinZoom)
	}
}

func TestSetZoomLimits(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Zoom = 7.0
	cam.SetZoomLimits(0.5, 4.0)
	if cam.Zoom != 4.0 {
		t.Errorf("zoom = %v, want re-clamped to 4", cam.Zoom)
	}

	// Nonsense limits are ignored.
	cam.SetZoomLimits(2.0, 1.0)
	if cam.MinZoom != 0.5 || cam.MaxZoom != 4.0 {
		t.Errorf("limits = [%v, %v], want unchanged", cam.MinZoom, cam.MaxZoom)
	}
}

func TestZoomCentered(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.CenterX = 42
	cam.CenterY = -7

	cam.ZoomCentered(1.15)
	if !near(cam.CenterX, 42) || !near(cam.CenterY, -7) {
		t.Errorf("center moved to (%v, %v)", cam.CenterX, cam.CenterY)
	}
	if !near(cam.Zoom, 1.15) {
		t.Errorf("zoom = %v, want 1.15", cam.Zoom)
	}
}

func TestFit(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Fit(graph.Rect{MinX: 0, MinY: 0, MaxX: 480, MaxY: 288})

	if !near(cam.CenterX, 240) || !near(cam.CenterY, 144) {
		t.Errorf("center = (%v, %v), want (240, 144)", cam.CenterX, cam.CenterY)
	}
	// Width is the binding dimension: 800*0.9/480 = 1.5 vs 600*0.9/288 = 1.875.
	if !near(cam.Zoom, 1.5) {
		t.Errorf("zoom = %v, want 1.5", cam.Zoom)
	}

	// Everything ends up on screen.
	for _, corner := range [][2]float64{{0, 0}, {480, 0}, {0, 288}, {480, 288}} {
		sx, sy := cam.WorldToScreen(corner[0], corner[1])
		if sx < 0 || sy < 0 || sx > 800 || sy > 600 {
			t.Errorf("corner (%v, %v) off screen at (%v, %v)", corner[0], corner[1], sx, sy)
		}
	}
}

func TestFitDegenerateBox(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.Zoom = 3.0
	cam.Fit(graph.Rect{MinX: 10, MinY: 20, MaxX: 10, MaxY: 20})
	if !near(cam.CenterX, 10) || !near(cam.CenterY, 20) {
		t.Errorf("center = (%v, %v), want (10, 20)", cam.CenterX, cam.CenterY)
	}
	if !near(cam.Zoom, 1.0) {
		t.Errorf("zoom = %v, want fallback 1.0", cam.Zoom)
	}
}

func TestFitRespectsZoomLimits(t *testing.T) {
	cam := NewCamera(800, 600)
	// Tiny content would need zoom far above the limit.
	cam.Fit(graph.Rect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1})
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("zoom = %v, want clamped to %v", cam.Zoom, cam.MaxZoom)
	}
}

func TestUpdateScreenSize(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.CenterX = 33
	cam.CenterY = 44
	cam.UpdateScreenSize(1024, 768)

	wx, wy := cam.ScreenToWorld(512, 384)
	if !near(wx, 33) || !near(wy, 44) {
		t.Errorf("new screen center maps to (%v, %v), want (33, 44)", wx, wy)
	}
}

func TestVisibleBounds(t *testing.T) {
	cam := NewCamera(800, 600)
	cam.CenterX = 100
	cam.CenterY = 100
	cam.Zoom = 2.0

	b := cam.VisibleBounds()
	if !near(b.MinX, -100) || !near(b.MaxX, 300) {
		t.Errorf("x bounds = [%v, %v], want [-100, 300]", b.MinX, b.MaxX)
	}
	if !near(b.MinY, -50) || !near(b.MaxY, 250) {
		t.Errorf("y bounds = [%v, %v], want [-50, 250]", b.MinY, b.MaxY)
	}
}
