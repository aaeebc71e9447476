package ui

import (
	"fmt"
	"image"
	"strings"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/devicetree-tools/dtviz/pkg/devicetree"
)

func (a *App) layoutPropPanel(gtx layout.Context, state StateSnapshot) layout.Dimensions {
	sel := state.Selected
	if sel == nil {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(material.H6(a.Theme, "Properties").Layout),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(material.Body2(a.Theme, "Select a node to inspect its properties.").Layout),
		)
	}

	// Property selection is per node; switching nodes drops it.
	if a.valueForNode != sel {
		a.valueForNode = sel
		a.selectedProp = ""
		a.valueForProp = ""
		a.valueEditor.SetText("")
	}
	a.handlePropActions(gtx, sel)

	status := sel.Status()
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(material.H6(a.Theme, "Properties").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			lbl := material.Body2(a.Theme, sel.Path)
			lbl.MaxLines = 2
			return lbl.Layout(gtx)
		}),
		layout.Rigid(material.Caption(a.Theme, fmt.Sprintf("status: %s", status)).Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			if len(sel.Properties) == 0 {
				return material.Caption(a.Theme, "No properties.").Layout(gtx)
			}
			return a.propList.Layout(gtx, len(sel.Properties), func(gtx layout.Context, idx int) layout.Dimensions {
				if idx >= len(sel.Properties) {
					return layout.Dimensions{}
				}
				return a.layoutPropRow(gtx, sel.Properties[idx])
			})
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutPropEditor(gtx)
		}),
	)
}

func (a *App) layoutPropRow(gtx layout.Context, prop devicetree.Property) layout.Dimensions {
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	clk := a.propClickable(prop.Name)
	for clk.Clicked(gtx) {
		a.selectedProp = prop.Name
		a.invalidate()
	}
	selected := prop.Name == a.selectedProp

	return clk.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Stack{}.Layout(gtx,
			layout.Expanded(func(gtx layout.Context) layout.Dimensions {
				if selected {
					bg := a.Theme.Palette.ContrastBg
					bg.A = 0x44
					rr := gtx.Dp(unit.Dp(4))
					paint.FillShape(gtx.Ops, bg, clip.RRect{
						Rect: image.Rectangle{Max: gtx.Constraints.Min},
						NW:   rr, NE: rr, SW: rr, SE: rr,
					}.Op(gtx.Ops))
				}
				return layout.Dimensions{Size: gtx.Constraints.Min}
			}),
			layout.Stacked(func(gtx layout.Context) layout.Dimensions {
				inset := layout.Inset{Top: unit.Dp(3), Bottom: unit.Dp(3), Left: unit.Dp(4), Right: unit.Dp(4)}
				return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					lbl := material.Body2(a.Theme, fmt.Sprintf("%s = %s", prop.Name, prop.Value.Display()))
					lbl.MaxLines = 1
					return lbl.Layout(gtx)
				})
			}),
		)
	})
}

// handlePropActions processes the edit buttons before layout so the frame
// reflects the updated tree.
func (a *App) handlePropActions(gtx layout.Context, sel *devicetree.Node) {
	for a.applyValueBtn.Clicked(gtx) {
		if a.selectedProp == "" {
			a.State.SetStatus("Select a property to edit")
			continue
		}
		v, err := devicetree.ParseValue(strings.TrimSpace(a.valueEditor.Text()))
		if err != nil {
			a.State.SetStatus(fmt.Sprintf("Invalid value: %v", err))
			continue
		}
		if a.State.SetNodeProperty(a.selectedProp, v) {
			a.valueForProp = "" // reprime from the stored value
			a.logf("Set %s on %s", a.selectedProp, sel.Path)
		}
	}
	for a.addPropBtn.Clicked(gtx) {
		name := strings.TrimSpace(a.newPropEditor.Text())
		if name == "" {
			continue
		}
		if sel.HasProperty(name) {
			a.State.SetStatus(fmt.Sprintf("Property %q already exists", name))
			continue
		}
		if a.State.SetNodeProperty(name, devicetree.StringValue("")) {
			a.selectedProp = name
			a.valueForProp = ""
			a.newPropEditor.SetText("")
			a.logf("Added property %s on %s", name, sel.Path)
		}
	}
	for a.delPropBtn.Clicked(gtx) {
		if a.selectedProp == "" {
			a.State.SetStatus("Select a property to delete")
			continue
		}
		if a.State.DeleteNodeProperty(a.selectedProp) {
			a.logf("Deleted property %s from %s", a.selectedProp, sel.Path)
			a.selectedProp = ""
			a.valueForProp = ""
			a.valueEditor.SetText("")
		}
	}

	// Prime the value editor when the edited property changes.
	if a.valueForProp != a.selectedProp {
		a.valueForProp = a.selectedProp
		if v, ok := sel.Property(a.selectedProp); ok {
			a.valueEditor.SetText(v.Source())
		} else {
			a.valueEditor.SetText("")
		}
	}
}

func (a *App) layoutPropEditor(gtx layout.Context) layout.Dimensions {
	editHint := "value"
	if a.selectedProp == "" {
		editHint = "select a property"
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(layout.Spacer{Height: unit.Dp(10)}.Layout),
		layout.Rigid(material.Caption(a.Theme, "Value").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutEditorField(gtx, &a.valueEditor, editHint)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					btn := material.Button(a.Theme, &a.applyValueBtn, "Apply")
					btn.Inset = layout.UniformInset(unit.Dp(6))
					return btn.Layout(gtx)
				}),
				layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					btn := material.Button(a.Theme, &a.delPropBtn, "Delete")
					btn.Inset = layout.UniformInset(unit.Dp(6))
					return btn.Layout(gtx)
				}),
			)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(10)}.Layout),
		layout.Rigid(material.Caption(a.Theme, "New property").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return a.layoutEditorField(gtx, &a.newPropEditor, "name")
				}),
				layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					btn := material.Button(a.Theme, &a.addPropBtn, "Add")
					btn.Inset = layout.UniformInset(unit.Dp(6))
					return btn.Layout(gtx)
				}),
			)
		}),
	)
}

func (a *App) propClickable(name string) *widget.Clickable {
	if clk, ok := a.propClicks[name]; ok {
		return clk
	}
	clk := &widget.Clickable{}
	a.propClicks[name] = clk
	return clk
}
