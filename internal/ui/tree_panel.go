package ui

import (
	"image"
	"image/color"
	"strings"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/devicetree-tools/dtviz/pkg/devicetree"
)

// treeRow is one visible line of the tree panel.
type treeRow struct {
	node      *devicetree.Node
	depth     int
	children  bool
	collapsed bool
}

// visibleRows flattens the tree into panel rows in source order, skipping
// the subtrees of collapsed rows.
func visibleRows(state StateSnapshot) []treeRow {
	if state.Root == nil {
		return nil
	}
	var rows []treeRow
	var walk func(n *devicetree.Node, depth int)
	walk = func(n *devicetree.Node, depth int) {
		collapsed := state.Collapsed[n.Path]
		rows = append(rows, treeRow{
			node:      n,
			depth:     depth,
			children:  len(n.Children) > 0,
			collapsed: collapsed,
		})
		if collapsed {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(state.Root, 0)
	return rows
}

func (a *App) layoutTreePanel(gtx layout.Context, state StateSnapshot) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(material.H6(a.Theme, "Nodes").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			if !state.HasTree() {
				return material.Body2(a.Theme, "Open a file to browse its nodes.").Layout(gtx)
			}
			rows := visibleRows(state)
			return a.treeList.Layout(gtx, len(rows), func(gtx layout.Context, idx int) layout.Dimensions {
				if idx >= len(rows) {
					return layout.Dimensions{}
				}
				return a.layoutTreeRow(gtx, &state, rows[idx])
			})
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutNodeActions(gtx, &state)
		}),
	)
}

func (a *App) layoutTreeRow(gtx layout.Context, state *StateSnapshot, row treeRow) layout.Dimensions {
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	clk := a.rowClickable(row.node.Path)
	for clk.Clicked(gtx) {
		a.State.SelectNode(row.node)
	}
	disclose := a.discloseClickable(row.node.Path)
	for disclose.Clicked(gtx) {
		a.State.ToggleCollapsed(row.node.Path)
	}

	selected := state.Selected == row.node
	nameColor := a.Theme.Palette.Fg
	if !row.node.Enabled() {
		nameColor = color.NRGBA{R: 185, G: 28, B: 28, A: 255}
	}

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
					return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
						layout.Rigid(layout.Spacer{Width: unit.Dp(12 * row.depth)}.Layout),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							if !row.children {
								sz := gtx.Dp(unit.Dp(14))
								return layout.Dimensions{Size: image.Pt(sz, sz)}
							}
							return disclose.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
								return a.discloseMarker(gtx, !row.collapsed)
							})
						}),
						layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							icon := state.Layout.Placements[row.node].Icon
							return categoryDot(gtx, a.colors.IconFill(icon))
						}),
						layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							lbl := material.Body2(a.Theme, row.node.Name)
							lbl.Color = nameColor
							lbl.MaxLines = 1
							return lbl.Layout(gtx)
						}),
					)
				})
			}),
		)
	})
}

// discloseMarker draws the expand/collapse triangle. Drawn as a path so
// it never depends on font glyph coverage.
func (a *App) discloseMarker(gtx layout.Context, expanded bool) layout.Dimensions {
	sz := gtx.Dp(unit.Dp(14))
	c := float32(sz)
	var p clip.Path
	p.Begin(gtx.Ops)
	if expanded {
		p.MoveTo(f32.Pt(c*0.2, c*0.35))
		p.LineTo(f32.Pt(c*0.8, c*0.35))
		p.LineTo(f32.Pt(c*0.5, c*0.75))
	} else {
		p.MoveTo(f32.Pt(c*0.35, c*0.2))
		p.LineTo(f32.Pt(c*0.75, c*0.5))
		p.LineTo(f32.Pt(c*0.35, c*0.8))
	}
	p.Close()
	col := a.Theme.Palette.Fg
	col.A = 0xB0
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: p.End()}.Op())
	return layout.Dimensions{Size: image.Pt(sz, sz)}
}

// categoryDot draws the small filled circle showing a node's category
// color, matching the icon fill used on the canvas.
func categoryDot(gtx layout.Context, col color.NRGBA) layout.Dimensions {
	sz := gtx.Dp(unit.Dp(10))
	paint.FillShape(gtx.Ops, col, clip.Ellipse{Max: image.Pt(sz, sz)}.Op(gtx.Ops))
	return layout.Dimensions{Size: image.Pt(sz, sz)}
}

// layoutNodeActions renders the rename and delete controls for the
// selected node under the tree.
func (a *App) layoutNodeActions(gtx layout.Context, state *StateSnapshot) layout.Dimensions {
	sel := state.Selected
	if sel == nil {
		return layout.Dimensions{}
	}
	if a.renameFor != sel {
		a.renameFor = sel
		a.renameEditor.SetText(sel.Name)
	}

	for a.renameBtn.Clicked(gtx) {
		name := strings.TrimSpace(a.renameEditor.Text())
		switch {
		case sel.Parent == nil:
			a.State.SetStatus("The root node cannot be renamed")
		case a.State.RenameSelected(name):
			a.logf("Renamed node to %s", name)
		default:
			a.State.SetStatus("Invalid node name")
		}
	}
	for a.deleteNodeBtn.Clicked(gtx) {
		path := sel.Path
		if a.State.DeleteSelected() {
			a.logf("Deleted %s", path)
		} else {
			a.State.SetStatus("The root node cannot be deleted")
		}
	}

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(layout.Spacer{Height: unit.Dp(10)}.Layout),
		layout.Rigid(material.Caption(a.Theme, "Selected node").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutEditorField(gtx, &a.renameEditor, "name")
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					btn := material.Button(a.Theme, &a.renameBtn, "Rename")
					btn.Inset = layout.UniformInset(unit.Dp(6))
					return btn.Layout(gtx)
				}),
				layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					btn := material.Button(a.Theme, &a.deleteNodeBtn, "Delete")
					btn.Background = color.NRGBA{R: 185, G: 28, B: 28, A: 255}
					btn.Inset = layout.UniformInset(unit.Dp(6))
					return btn.Layout(gtx)
				}),
			)
		}),
	)
}

// layoutEditorField wraps a single line editor in the bordered field
// style used across the panels.
func (a *App) layoutEditorField(gtx layout.Context, ed *widget.Editor, hint string) layout.Dimensions {
	border := widget.Border{
		Color:        color.NRGBA{R: 170, G: 176, B: 196, A: 255},
		CornerRadius: unit.Dp(4),
		Width:        unit.Dp(1),
	}
	return border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(6)).Layout(gtx, material.Editor(a.Theme, ed, hint).Layout)
	})
}

func (a *App) rowClickable(path string) *widget.Clickable {
	if clk, ok := a.rowClicks[path]; ok {
		return clk
	}
	clk := &widget.Clickable{}
	a.rowClicks[path] = clk
	return clk
}

func (a *App) discloseClickable(path string) *widget.Clickable {
	if clk, ok := a.discloseClicks[path]; ok {
		return clk
	}
	clk := &widget.Clickable{}
	a.discloseClicks[path] = clk
	return clk
}
