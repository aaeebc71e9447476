// Package render draws computed devicetree layouts onto a Gio canvas: a
// camera maps world coordinates to screen pixels, a theme supplies the
// colors, and the scene renderer paints icons, edges, and labels while
// reporting screen-space icon boxes for hit-testing.
package render

import (
	"github.com/devicetree-tools/dtviz/pkg/graph"
)

// Default zoom limits, overridable from config.
const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 8.0
)

// Camera is a viewport onto the world-coordinate layout plane. Zoom is
// pixels per world unit; higher values are more zoomed in. Y increases
// downward in both spaces.
type Camera struct {
	// Center position in world coordinates
	CenterX float64
	CenterY float64

	// Zoom level (pixels per world unit)
	Zoom float64

	// Screen dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int

	// Zoom clamp bounds
	MinZoom float64
	MaxZoom float64
}

// NewCamera creates a camera at 1:1 zoom with default zoom limits.
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         1.0,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		MinZoom:      DefaultMinZoom,
		MaxZoom:      DefaultMaxZoom,
	}
}

// SetZoomLimits replaces the clamp bounds and re-clamps the current zoom.
func (c *Camera) SetZoomLimits(min, max float64) {
	if min <= 0 || max < min {
		return
	}
	c.MinZoom = min
	c.MaxZoom = max
	c.Zoom = c.clampZoom(c.Zoom)
}

// WorldToScreen converts world coordinates to screen pixels.
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	x := (wx - c.CenterX) * c.Zoom
	y := (wy - c.CenterY) * c.Zoom
	x += float64(c.ScreenWidth) / 2.0
	y += float64(c.ScreenHeight) / 2.0
	return x, y
}

// ScreenToWorld converts screen pixels to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	x := sx - float64(c.ScreenWidth)/2.0
	y := sy - float64(c.ScreenHeight)/2.0
	x /= c.Zoom
	y /= c.Zoom
	return x + c.CenterX, y + c.CenterY
}

// Pan moves the camera by screen pixel offsets. Unbounded.
func (c *Camera) Pan(deltaX, deltaY float64) {
	c.CenterX -= deltaX / c.Zoom
	c.CenterY -= deltaY / c.Zoom
}

// ZoomAt zooms at a specific screen position, keeping the world point
// under it stationary. factor > 1 zooms in, factor < 1 zooms out; the
// result is clamped to the camera's limits.
func (c *Camera) ZoomAt(screenX, screenY, factor float64) {
	beforeX, beforeY := c.ScreenToWorld(screenX, screenY)

	c.Zoom = c.clampZoom(c.Zoom * factor)

	afterX, afterY := c.ScreenToWorld(screenX, screenY)
	c.CenterX += beforeX - afterX
	c.CenterY += beforeY - afterY
}

// ZoomCentered zooms on the viewport center, for toolbar zoom buttons.
func (c *Camera) ZoomCentered(factor float64) {
	c.ZoomAt(float64(c.ScreenWidth)/2.0, float64(c.ScreenHeight)/2.0, factor)
}

// Fit centers the camera on the content box and picks the largest zoom
// that shows all of it with a 10% margin, clamped to the zoom limits.
// Degenerate boxes fall back to centering at 1:1.
func (c *Camera) Fit(b graph.Rect) {
	width := b.Width()
	height := b.Height()

	c.CenterX = (b.MinX + b.MaxX) / 2.0
	c.CenterY = (b.MinY + b.MaxY) / 2.0

	if width <= 0 || height <= 0 || c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		c.Zoom = c.clampZoom(1.0)
		return
	}

	zoomX := float64(c.ScreenWidth) * 0.9 / width
	zoomY := float64(c.ScreenHeight) * 0.9 / height
	if zoomX < zoomY {
		c.Zoom = c.clampZoom(zoomX)
	} else {
		c.Zoom = c.clampZoom(zoomY)
	}
}

// UpdateScreenSize updates the camera when the canvas is resized.
func (c *Camera) UpdateScreenSize(width, height int) {
	c.ScreenWidth = width
	c.ScreenHeight = height
}

// VisibleBounds returns the world-space box currently on screen.
func (c *Camera) VisibleBounds() graph.Rect {
	minX, minY := c.ScreenToWorld(0, 0)
	maxX, maxY := c.ScreenToWorld(float64(c.ScreenWidth), float64(c.ScreenHeight))
	return graph.Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

func (c *Camera) clampZoom(z float64) float64 {
	if z < c.MinZoom {
		return c.MinZoom
	}
	if z > c.MaxZoom {
		return c.MaxZoom
	}
	return z
}
