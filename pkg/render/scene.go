package render

import (
	"image"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/devicetree-tools/dtviz/pkg/devicetree"
	"github.com/devicetree-tools/dtviz/pkg/graph"
)

// Global theme for text rendering
var defaultTheme = material.NewTheme()

func init() {
	defaultTheme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
}

// NodeHit pairs a node with its screen-space icon box, for hit-testing
// pointer clicks against the frame that was just drawn.
type NodeHit struct {
	Node   *devicetree.Node
	Bounds image.Rectangle
}

// Options controls what the scene renderer draws.
type Options struct {
	ShowLabels   bool
	ShowRefEdges bool
}

// DefaultOptions returns the default rendering options (all enabled).
func DefaultOptions() Options {
	return Options{
		ShowLabels:   true,
		ShowRefEdges: true,
	}
}

// iconAbbrev is the short text drawn inside each icon box.
var iconAbbrev = map[graph.Icon]string{
	graph.IconCPU:       "CPU",
	graph.IconMemory:    "RAM",
	graph.IconBus:       "BUS",
	graph.IconGPIO:      "GPIO",
	graph.IconInterrupt: "INTC",
	graph.IconClock:     "CLK",
	graph.IconGeneric:   "NODE",
}

// DrawScene renders a computed layout through the camera and returns the
// screen boxes of the icons it drew, in layout order. Off-screen nodes
// are culled from both drawing and the hit list.
func DrawScene(gtx layout.Context, cam *Camera, res graph.LayoutResult, selected *devicetree.Node, colors *SceneColors, opts Options) []NodeHit {
	paint.Fill(gtx.Ops, colors.Background)
	if len(res.Nodes) == 0 {
		return nil
	}

	viewport := image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)

	// Reference edges go down first so the tree structure stays readable
	// on top of them.
	if opts.ShowRefEdges {
		drawRefEdges(gtx, cam, res, colors)
	}
	drawTreeEdges(gtx, cam, res, colors)

	hits := make([]NodeHit, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		p := res.Placements[n]
		box := iconScreenRect(cam, p)
		if !box.Overlaps(viewport.Inset(-iconCullMargin)) {
			continue
		}
		drawIcon(gtx, cam, n, p, n == selected, colors)
		if opts.ShowLabels {
			drawNameLabel(gtx, cam, n, p, colors)
		}
		hits = append(hits, NodeHit{Node: n, Bounds: box})
	}
	return hits
}

// HitAt returns the topmost node whose icon box contains the screen
// position, or nil when the click lands on empty canvas.
func HitAt(hits []NodeHit, pos image.Point) *devicetree.Node {
	// Later entries draw on top, so scan backwards.
	for i := len(hits) - 1; i >= 0; i-- {
		if pos.In(hits[i].Bounds) {
			return hits[i].Node
		}
	}
	return nil
}

const iconCullMargin = 64

func iconScreenRect(cam *Camera, p graph.Placement) image.Rectangle {
	x0, y0 := cam.WorldToScreen(p.X, p.Y)
	x1, y1 := cam.WorldToScreen(p.X+graph.IconSize, p.Y+graph.IconSize)
	return image.Rect(int(x0), int(y0), int(x1), int(y1))
}

// drawTreeEdges strokes parent/child connectors from the bottom center of
// each parent icon to the top center of each child icon.
func drawTreeEdges(gtx layout.Context, cam *Camera, res graph.LayoutResult, colors *SceneColors) {
	const edgeWidth = 2.0
	for _, e := range res.Edges {
		pp, ok := res.Placements[e.Parent]
		if !ok {
			continue
		}
		cp, ok := res.Placements[e.Child]
		if !ok {
			continue
		}
		x0, y0 := cam.WorldToScreen(pp.X+graph.IconSize/2, pp.Y+graph.IconSize)
		x1, y1 := cam.WorldToScreen(cp.X+graph.IconSize/2, cp.Y)

		var path clip.Path
		path.Begin(gtx.Ops)
		path.MoveTo(f32.Pt(float32(x0), float32(y0)))
		path.LineTo(f32.Pt(float32(x1), float32(y1)))
		paint.FillShape(gtx.Ops, colors.Edge, clip.Stroke{
			Path:  path.End(),
			Width: edgeWidth,
		}.Op())
	}
}

// drawRefEdges strokes phandle reference links between icon centers,
// thinner and in a distinct color so they read apart from the tree.
func drawRefEdges(gtx layout.Context, cam *Camera, res graph.LayoutResult, colors *SceneColors) {
	const refWidth = 1.5
	for _, e := range res.RefEdges {
		fp, ok := res.Placements[e.From]
		if !ok {
			continue
		}
		tp, ok := res.Placements[e.To]
		if !ok {
			continue
		}
		x0, y0 := cam.WorldToScreen(fp.X+graph.IconSize/2, fp.Y+graph.IconSize/2)
		x1, y1 := cam.WorldToScreen(tp.X+graph.IconSize/2, tp.Y+graph.IconSize/2)

		var path clip.Path
		path.Begin(gtx.Ops)
		path.MoveTo(f32.Pt(float32(x0), float32(y0)))
		path.LineTo(f32.Pt(float32(x1), float32(y1)))
		paint.FillShape(gtx.Ops, colors.RefEdge, clip.Stroke{
			Path:  path.End(),
			Width: refWidth,
		}.Op())
	}
}

// drawIcon paints one node: rounded category-colored box, abbreviation
// text, status dot, and the selection ring when the node is selected.
func drawIcon(gtx layout.Context, cam *Camera, n *devicetree.Node, p graph.Placement, selected bool, colors *SceneColors) {
	box := iconScreenRect(cam, p)
	radius := scalePx(cam, 6, 1)

	rr := clip.RRect{Rect: box, SE: radius, SW: radius, NW: radius, NE: radius}
	paint.FillShape(gtx.Ops, colors.IconFill(p.Icon), rr.Op(gtx.Ops))
	paint.FillShape(gtx.Ops, colors.IconOutline, clip.Stroke{
		Path:  rr.Path(gtx.Ops),
		Width: float32(scalePx(cam, 1, 1)),
	}.Op())

	if selected {
		ring := clip.RRect{
			Rect: box.Inset(-4),
			SE:   radius + 4, SW: radius + 4, NW: radius + 4, NE: radius + 4,
		}
		paint.FillShape(gtx.Ops, colors.Selection, clip.Stroke{
			Path:  ring.Path(gtx.Ops),
			Width: 3.0,
		}.Op())
	}

	drawAbbrev(gtx, cam, box, iconAbbrev[p.Icon], colors)
	drawStatusDot(gtx, cam, n, p, colors)
}

// drawAbbrev centers the category abbreviation inside the icon box.
func drawAbbrev(gtx layout.Context, cam *Camera, box image.Rectangle, abbrev string, colors *SceneColors) {
	size := 10.0 * cam.Zoom
	if size < 5 {
		return
	}
	// Rough centering from an estimated glyph width.
	textW := float64(len(abbrev)) * size * 0.62
	x := float64(box.Min.X) + (float64(box.Dx())-textW)/2
	y := float64(box.Min.Y) + float64(box.Dy())/2 - size*0.65

	stack := op.Affine(f32.Affine2D{}.Offset(f32.Pt(float32(x), float32(y)))).Push(gtx.Ops)
	defer stack.Pop()

	lbl := material.Label(defaultTheme, unit.Sp(size), abbrev)
	lbl.Color = colors.IconText
	lbl.Font.Weight = font.Bold
	lbl.Alignment = text.Start
	lbl.Layout(gtx)
}

// drawStatusDot paints the enabled/disabled indicator near the icon's
// bottom-right corner, ringed so it reads against the category fill.
func drawStatusDot(gtx layout.Context, cam *Camera, n *devicetree.Node, p graph.Placement, colors *SceneColors) {
	// World-space dot box matching the 10-unit dot inset 4 from the corner.
	x0, y0 := cam.WorldToScreen(p.X+graph.IconSize-14, p.Y+graph.IconSize-14)
	x1, y1 := cam.WorldToScreen(p.X+graph.IconSize-4, p.Y+graph.IconSize-4)
	dot := clip.Ellipse{Min: image.Pt(int(x0), int(y0)), Max: image.Pt(int(x1), int(y1))}

	fill := colors.StatusOK
	if !n.Enabled() {
		fill = colors.StatusDisabled
	}
	paint.FillShape(gtx.Ops, fill, dot.Op(gtx.Ops))
	paint.FillShape(gtx.Ops, colors.StatusRing, clip.Stroke{
		Path:  dot.Path(gtx.Ops),
		Width: float32(scalePx(cam, 2, 1)),
	}.Op())
}

// drawNameLabel draws the node name centered under the icon. Skipped when
// zoomed out far enough that the text would be unreadable.
func drawNameLabel(gtx layout.Context, cam *Camera, n *devicetree.Node, p graph.Placement, colors *SceneColors) {
	size := 11.0 * cam.Zoom
	if size < 6 {
		return
	}
	if size > 22 {
		size = 22
	}
	name := n.Name
	textW := float64(len(name)) * size * 0.55
	cx, y := cam.WorldToScreen(p.X+graph.IconSize/2, p.Y+graph.IconSize+4)

	stack := op.Affine(f32.Affine2D{}.Offset(f32.Pt(float32(cx-textW/2), float32(y)))).Push(gtx.Ops)
	defer stack.Pop()

	lbl := material.Label(defaultTheme, unit.Sp(size), name)
	lbl.Color = colors.Label
	lbl.Alignment = text.Start
	lbl.Layout(gtx)
}

// scalePx converts a world-space length to screen pixels with a floor, so
// hairlines stay visible when zoomed out.
func scalePx(cam *Camera, world float64, min int) int {
	px := int(world * cam.Zoom)
	if px < min {
		return min
	}
	return px
}
