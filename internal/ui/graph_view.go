package ui

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/devicetree-tools/dtviz/pkg/render"
)

// zoomStep is the factor applied per zoom increment: toolbar buttons,
// keyboard, and one wheel notch.
const zoomStep = 1.15

// layoutGraphView draws the node graph canvas and routes its pointer
// input. Input is handled against the hit boxes of the previous frame,
// then the scene is redrawn and the boxes refreshed.
func (a *App) layoutGraphView(gtx layout.Context, state *StateSnapshot) layout.Dimensions {
	size := gtx.Constraints.Max
	a.camera.UpdateScreenSize(size.X, size.Y)

	// Refit once per loaded tree, after the canvas has a real size.
	if state.LoadSeq != a.lastFitSeq {
		a.lastFitSeq = state.LoadSeq
		if state.HasTree() {
			a.camera.Fit(state.Layout.Bounds)
		}
	}

	a.handleGraphInput(gtx, state)

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, &a.graphTag)

	a.hits = render.DrawScene(gtx, a.camera, state.Layout, state.Selected, a.colors, a.opts)

	gtx.Constraints.Min = size
	layout.SE.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			lbl := material.Caption(a.Theme, "drag: pan   scroll: zoom   F: fit")
			lbl.Color = a.colors.Label
			return lbl.Layout(gtx)
		})
	})

	return layout.Dimensions{Size: size}
}

func (a *App) handleGraphInput(gtx layout.Context, state *StateSnapshot) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  &a.graphTag,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -120, Max: 120},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons != pointer.ButtonPrimary {
				break
			}
			pos := image.Pt(int(pe.Position.X), int(pe.Position.Y))
			if n := render.HitAt(a.hits, pos); n != nil {
				a.State.SelectNode(n)
			} else {
				a.panning = true
				a.lastDrag = pe.Position
			}
		case pointer.Drag:
			if a.panning {
				a.camera.Pan(float64(pe.Position.X-a.lastDrag.X), float64(pe.Position.Y-a.lastDrag.Y))
				a.lastDrag = pe.Position
				a.invalidate()
			}
		case pointer.Release, pointer.Cancel:
			a.panning = false
		case pointer.Scroll:
			if pe.Scroll.Y == 0 {
				break
			}
			factor := zoomStep
			if pe.Scroll.Y > 0 {
				factor = 1 / zoomStep
			}
			a.camera.ZoomAt(float64(pe.Position.X), float64(pe.Position.Y), factor)
			a.invalidate()
		}
	}
}

// handleKeys processes the window-level shortcuts. Filters stay idle
// while an editor holds focus, so typing never pans the camera.
func (a *App) handleKeys(gtx layout.Context, state *StateSnapshot) {
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "F"},
			key.Filter{Name: "+"},
			key.Filter{Name: "="},
			key.Filter{Name: "-"},
			key.Filter{Name: "O", Required: key.ModShortcut},
			key.Filter{Name: "S", Required: key.ModShortcut},
		)
		if !ok {
			break
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press {
			continue
		}
		switch ke.Name {
		case "F":
			a.fitToView(state)
		case "+", "=":
			a.camera.ZoomCentered(zoomStep)
			a.invalidate()
		case "-":
			a.camera.ZoomCentered(1 / zoomStep)
			a.invalidate()
		case "O":
			a.openFileDialog()
		case "S":
			a.saveFile()
		}
	}
}
