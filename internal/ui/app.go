package ui

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/gesture"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/charmbracelet/log"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/devicetree-tools/dtviz/internal/config"
	"github.com/devicetree-tools/dtviz/pkg/devicetree"
	"github.com/devicetree-tools/dtviz/pkg/render"
)

// App drives the Gio-based devicetree visualizer UI.
type App struct {
	Window *app.Window
	Theme  *material.Theme
	State  *AppState

	cfg    config.Config
	logger *log.Logger

	ops    op.Ops
	picker *explorer.Explorer

	gvTheme     *theme.Theme
	viewMenu    *menu.DropdownMenu
	viewMenuBtn widget.Clickable

	camera     *render.Camera
	sceneTheme render.Theme
	colors     *render.SceneColors
	opts       render.Options

	openBtn   widget.Clickable
	saveBtn   widget.Clickable
	exportBtn widget.Clickable

	zoomInBtn  widget.Clickable
	zoomOutBtn widget.Clickable
	fitBtn     widget.Clickable

	zoomInIcon  *widget.Icon
	zoomOutIcon *widget.Icon
	fitIcon     *widget.Icon

	// Graph canvas input. hits holds the icon boxes of the last drawn
	// frame; presses are tested against it before starting a pan.
	graphTag   int
	hits       []render.NodeHit
	panning    bool
	lastDrag   f32.Point
	lastFitSeq uint64

	treeList       layout.List
	lastWidgetSeq  uint64
	rowClicks      map[string]*widget.Clickable
	discloseClicks map[string]*widget.Clickable
	renameEditor   widget.Editor
	renameBtn      widget.Clickable
	deleteNodeBtn  widget.Clickable
	renameFor      *devicetree.Node

	propList      layout.List
	propClicks    map[string]*widget.Clickable
	selectedProp  string
	valueEditor   widget.Editor
	valueForNode  *devicetree.Node
	valueForProp  string
	applyValueBtn widget.Clickable
	newPropEditor widget.Editor
	addPropBtn    widget.Clickable
	delPropBtn    widget.Clickable

	logList       layout.List
	logPaneHeight float32
	logSplitter   gesture.Drag
	logSplitLastY float32
	logSplitDrag  bool
}

// New wires the Gio window, theme, config, and shared state together.
func New(window *app.Window, state *AppState, cfg config.Config, logger *log.Logger) *App {
	if state == nil {
		state = NewState()
	}
	baseTheme := material.NewTheme()
	baseTheme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	baseTheme.Palette = material.Palette{
		Bg:         color.NRGBA{R: 245, G: 246, B: 252, A: 255},
		Fg:         color.NRGBA{R: 34, G: 37, B: 49, A: 255},
		ContrastBg: color.NRGBA{R: 80, G: 120, B: 255, A: 255},
		ContrastFg: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}

	gv := theme.NewTheme("", nil, true)
	gv.WithPalette(theme.Palette{
		Bg:         color.NRGBA{R: 245, G: 247, B: 253, A: 255},
		Fg:         color.NRGBA{R: 34, G: 37, B: 49, A: 255},
		ContrastBg: color.NRGBA{R: 80, G: 120, B: 255, A: 255},
		ContrastFg: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Bg2:        color.NRGBA{R: 225, G: 230, B: 244, A: 255},
	})

	sceneTheme := render.ParseTheme(cfg.Theme)

	a := &App{
		Window:         window,
		Theme:          baseTheme,
		State:          state,
		cfg:            cfg,
		logger:         logger,
		gvTheme:        gv,
		camera:         render.NewCamera(800, 600),
		sceneTheme:     sceneTheme,
		colors:         render.GetSceneColors(sceneTheme),
		opts:           render.Options{ShowLabels: cfg.ShowLabels, ShowRefEdges: cfg.ShowRefEdges},
		treeList:       layout.List{Axis: layout.Vertical},
		propList:       layout.List{Axis: layout.Vertical},
		logList:        layout.List{Axis: layout.Vertical},
		rowClicks:      make(map[string]*widget.Clickable),
		discloseClicks: make(map[string]*widget.Clickable),
		propClicks:     make(map[string]*widget.Clickable),
	}
	a.camera.SetZoomLimits(cfg.ZoomMin, cfg.ZoomMax)
	if window != nil {
		a.picker = explorer.NewExplorer(window)
	}
	a.renameEditor.SingleLine = true
	a.valueEditor.SingleLine = true
	a.newPropEditor.SingleLine = true
	a.initIcons()
	a.viewMenu = a.buildViewMenu()
	state.Subscribe(a.invalidate)
	return a
}

// Run processes Gio events until the window is closed.
func (a *App) Run() error {
	for {
		e := a.Window.Event()
		if a.picker != nil {
			a.picker.ListenEvents(e)
		}
		switch ev := e.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func (a *App) initIcons() {
	makeIcon := func(data []byte, name string) *widget.Icon {
		icon, err := widget.NewIcon(data)
		if err != nil {
			if a.logger != nil {
				a.logger.Warn("icon unavailable", "name", name, "err", err)
			}
			return nil
		}
		return icon
	}
	a.zoomInIcon = makeIcon(icons.ActionZoomIn, "zoom-in")
	a.zoomOutIcon = makeIcon(icons.ActionZoomOut, "zoom-out")
	a.fitIcon = makeIcon(icons.MapsZoomOutMap, "fit")
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	state := a.State.Snapshot()
	a.resetTreeWidgets(&state)
	a.handleKeys(gtx, &state)

	paint.FillShape(gtx.Ops, color.NRGBA{R: 238, G: 241, B: 251, A: 255}, clip.Rect{Max: gtx.Constraints.Max}.Op())

	children := []layout.FlexChild{
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutToolbar(gtx, &state)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return a.layoutMain(gtx, state)
		}),
	}
	if state.LoadError != "" {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutErrorBanner(gtx, state.LoadError)
		}))
	}
	children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
		return a.layoutStatus(gtx, state)
	}))
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

func (a *App) layoutToolbar(gtx layout.Context, state *StateSnapshot) layout.Dimensions {
	iconButton := func(clk *widget.Clickable, icon *widget.Icon, fallback, desc string) layout.Widget {
		return func(gtx layout.Context) layout.Dimensions {
			if icon == nil {
				btn := material.Button(a.Theme, clk, fallback)
				btn.Inset = layout.UniformInset(unit.Dp(6))
				return btn.Layout(gtx)
			}
			btn := material.IconButton(a.Theme, clk, icon, desc)
			btn.Size = unit.Dp(20)
			btn.Inset = layout.UniformInset(unit.Dp(6))
			return btn.Layout(gtx)
		}
	}
	textButton := func(clk *widget.Clickable, label string) layout.Widget {
		return func(gtx layout.Context) layout.Dimensions {
			btn := material.Button(a.Theme, clk, label)
			btn.Inset = layout.UniformInset(unit.Dp(6))
			return btn.Layout(gtx)
		}
	}

	for a.openBtn.Clicked(gtx) {
		a.openFileDialog()
	}
	for a.saveBtn.Clicked(gtx) {
		a.saveFile()
	}
	for a.exportBtn.Clicked(gtx) {
		a.exportSelected()
	}
	for a.zoomInBtn.Clicked(gtx) {
		a.camera.ZoomCentered(zoomStep)
		a.invalidate()
	}
	for a.zoomOutBtn.Clicked(gtx) {
		a.camera.ZoomCentered(1 / zoomStep)
		a.invalidate()
	}
	for a.fitBtn.Clicked(gtx) {
		a.fitToView(state)
	}

	return layout.Inset{
		Top: unit.Dp(10), Bottom: unit.Dp(6), Left: unit.Dp(16), Right: unit.Dp(16),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(material.H6(a.Theme, "Device Tree Visualizer").Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(18)}.Layout),
			layout.Rigid(textButton(&a.openBtn, "Open")),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(textButton(&a.saveBtn, "Save")),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(textButton(&a.exportBtn, "Export Node")),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{}
			}),
			layout.Rigid(iconButton(&a.zoomOutBtn, a.zoomOutIcon, "-", "Zoom out")),
			layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
			layout.Rigid(iconButton(&a.zoomInBtn, a.zoomInIcon, "+", "Zoom in")),
			layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
			layout.Rigid(iconButton(&a.fitBtn, a.fitIcon, "Fit", "Fit to view")),
			layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if a.viewMenu != nil && a.viewMenuBtn.Clicked(gtx) {
					a.viewMenu.ToggleVisibility(gtx)
				}
				btn := material.Button(a.Theme, &a.viewMenuBtn, "View")
				btn.Inset = layout.UniformInset(unit.Dp(6))
				dims := btn.Layout(gtx)
				if a.viewMenu != nil {
					a.viewMenu.Layout(gtx, a.gvTheme)
				}
				return dims
			}),
		)
	})
}

// buildViewMenu assembles the dropdown of scene toggles. Option labels
// render through the gioview theme and pick up the accent color while the
// toggle is on.
func (a *App) buildViewMenu() *menu.DropdownMenu {
	items := []struct {
		label  string
		active func() bool
		apply  func()
	}{
		{
			label:  "Node labels",
			active: func() bool { return a.opts.ShowLabels },
			apply:  func() { a.opts.ShowLabels = !a.opts.ShowLabels },
		},
		{
			label:  "Reference edges",
			active: func() bool { return a.opts.ShowRefEdges },
			apply:  func() { a.opts.ShowRefEdges = !a.opts.ShowRefEdges },
		},
		{
			label:  "Dark canvas",
			active: func() bool { return a.sceneTheme == render.ThemeDark },
			apply: func() {
				if a.sceneTheme == render.ThemeDark {
					a.setCanvasTheme(render.ThemeLight)
				} else {
					a.setCanvasTheme(render.ThemeDark)
				}
			},
		},
	}
	opts := make([]menu.MenuOption, 0, len(items))
	for _, it := range items {
		item := it
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				item.apply()
				a.invalidate()
				return nil
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				lbl := material.Body1(th.Theme, item.label)
				if item.active() {
					lbl.Color = th.Palette.ContrastBg
				}
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, lbl.Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(220)
	return drop
}

func (a *App) setCanvasTheme(t render.Theme) {
	a.sceneTheme = t
	a.colors = render.GetSceneColors(t)
}

func (a *App) layoutMain(gtx layout.Context, state StateSnapshot) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return a.layoutWorkspace(gtx, state)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutLogSplitter(gtx)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutLogPane(gtx, state)
		}),
	)
}

func (a *App) layoutWorkspace(gtx layout.Context, state StateSnapshot) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			width := gtx.Dp(unit.Dp(280))
			gtx.Constraints.Max.X = width
			gtx.Constraints.Min.X = width
			return a.layoutPanelSurface(gtx, func(gtx layout.Context) layout.Dimensions {
				return a.layoutTreePanel(gtx, state)
			})
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Left: unit.Dp(12), Right: unit.Dp(12), Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				if !state.HasTree() {
					return a.layoutWelcomeCard(gtx)
				}
				return a.layoutGraphView(gtx, &state)
			})
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			width := gtx.Dp(unit.Dp(320))
			gtx.Constraints.Max.X = width
			gtx.Constraints.Min.X = width
			return a.layoutPanelSurface(gtx, func(gtx layout.Context) layout.Dimensions {
				return a.layoutPropPanel(gtx, state)
			})
		}),
	)
}

func (a *App) layoutPanelSurface(gtx layout.Context, body layout.Widget) layout.Dimensions {
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			col := color.NRGBA{R: 238, G: 240, B: 247, A: 255}
			rr := gtx.Dp(unit.Dp(10))
			paint.FillShape(gtx.Ops, col, clip.RRect{
				Rect: image.Rectangle{Max: gtx.Constraints.Max},
				NW:   rr, NE: rr, SW: rr, SE: rr,
			}.Op(gtx.Ops))
			return layout.Dimensions{Size: gtx.Constraints.Max}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{
				Left: unit.Dp(10), Right: unit.Dp(10), Top: unit.Dp(10), Bottom: unit.Dp(10),
			}.Layout(gtx, body)
		}),
	)
}

func (a *App) layoutWelcomeCard(gtx layout.Context) layout.Dimensions {
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			rr := gtx.Dp(unit.Dp(12))
			paint.FillShape(gtx.Ops, a.colors.Background, clip.RRect{
				Rect: image.Rectangle{Max: gtx.Constraints.Max},
				NW:   rr, NE: rr, SW: rr, SE: rr,
			}.Op(gtx.Ops))
			return layout.Dimensions{Size: gtx.Constraints.Max}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Top: unit.Dp(48), Left: unit.Dp(32), Right: unit.Dp(32)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
					layout.Rigid(material.H5(a.Theme, "No device tree loaded").Layout),
					layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
					layout.Rigid(material.Body1(a.Theme, "Open a .dts file to see its nodes laid out as a graph.").Layout),
					layout.Rigid(layout.Spacer{Height: unit.Dp(18)}.Layout),
					layout.Rigid(material.Body2(a.Theme, "Drag to pan, scroll to zoom, click an icon to inspect it.").Layout),
					layout.Rigid(material.Body2(a.Theme, "F fits the whole tree in view.").Layout),
				)
			})
		}),
	)
}

func (a *App) layoutErrorBanner(gtx layout.Context, msg string) layout.Dimensions {
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			paint.FillShape(gtx.Ops, color.NRGBA{R: 220, G: 38, B: 38, A: 255}, clip.Rect{Max: gtx.Constraints.Max}.Op())
			return layout.Dimensions{Size: gtx.Constraints.Max}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Left: unit.Dp(16), Right: unit.Dp(16), Top: unit.Dp(6), Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				lbl := material.Body2(a.Theme, msg)
				lbl.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
				return lbl.Layout(gtx)
			})
		}),
	)
}

func (a *App) layoutLogPane(gtx layout.Context, state StateSnapshot) layout.Dimensions {
	a.ensureLogPaneHeight(gtx)
	height := int(a.logPaneHeight)
	if h := gtx.Constraints.Max.Y; h > 0 && height > h {
		height = h
	}
	gtx.Constraints.Min.Y = height
	gtx.Constraints.Max.Y = height
	return layout.Inset{
		Left: unit.Dp(16), Right: unit.Dp(16), Top: unit.Dp(6), Bottom: unit.Dp(6),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		if len(state.Logs) == 0 {
			return material.Caption(a.Theme, "Activity will appear here.").Layout(gtx)
		}
		return a.logList.Layout(gtx, len(state.Logs), func(gtx layout.Context, idx int) layout.Dimensions {
			if idx >= len(state.Logs) {
				return layout.Dimensions{}
			}
			lbl := material.Caption(a.Theme, state.Logs[idx])
			lbl.Color = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
			return lbl.Layout(gtx)
		})
	})
}

func (a *App) layoutLogSplitter(gtx layout.Context) layout.Dimensions {
	height := gtx.Dp(unit.Dp(10))
	if height < 4 {
		height = 4
	}
	size := image.Pt(gtx.Constraints.Max.X, height)
	if size.X == 0 {
		size.X = gtx.Dp(unit.Dp(400))
	}
	rect := clip.Rect{Max: size}
	paint.FillShape(gtx.Ops, color.NRGBA{R: 210, G: 214, B: 228, A: 255}, rect.Op())

	stack := rect.Push(gtx.Ops)
	a.logSplitter.Add(gtx.Ops)
	stack.Pop()

	if ev, ok := a.logSplitter.Update(gtx.Metric, gtx.Source, gesture.Vertical); ok {
		switch ev.Kind {
		case pointer.Press:
			a.logSplitDrag = true
			a.logSplitLastY = ev.Position.Y
		case pointer.Drag:
			if a.logSplitDrag {
				dy := ev.Position.Y - a.logSplitLastY
				a.logSplitLastY = ev.Position.Y
				a.logPaneHeight -= dy
				a.clampLogPaneHeight(gtx)
				a.invalidate()
			}
		case pointer.Release, pointer.Cancel:
			a.logSplitDrag = false
		}
	}
	return layout.Dimensions{Size: size}
}

func (a *App) ensureLogPaneHeight(gtx layout.Context) {
	if a.logPaneHeight > 0 {
		return
	}
	a.logPaneHeight = float32(gtx.Dp(unit.Dp(140)))
	a.clampLogPaneHeight(gtx)
}

func (a *App) clampLogPaneHeight(gtx layout.Context) {
	min := float32(gtx.Dp(unit.Dp(60)))
	max := float32(gtx.Dp(unit.Dp(360)))
	if a.logPaneHeight < min {
		a.logPaneHeight = min
	}
	if a.logPaneHeight > max {
		a.logPaneHeight = max
	}
}

func (a *App) layoutStatus(gtx layout.Context, state StateSnapshot) layout.Dimensions {
	fileLabel := "No file"
	if state.FilePath != "" {
		fileLabel = filepath.Base(state.FilePath)
	}
	if state.Dirty {
		fileLabel += " *"
	}
	nodesLabel := fmt.Sprintf("Nodes: %d", len(state.Layout.Nodes))
	selLabel := "Selected: none"
	if state.Selected != nil {
		selLabel = "Selected: " + state.Selected.Path
	}
	zoomLabel := fmt.Sprintf("Zoom: %.0f%%", a.camera.Zoom*100)

	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			paint.FillShape(gtx.Ops, color.NRGBA{R: 230, G: 234, B: 244, A: 255}, clip.Rect{Max: gtx.Constraints.Max}.Op())
			return layout.Dimensions{Size: gtx.Constraints.Max}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			inset := layout.Inset{Left: unit.Dp(16), Right: unit.Dp(16), Top: unit.Dp(8), Bottom: unit.Dp(8)}
			return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(material.Body2(a.Theme, fileLabel).Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(18)}.Layout),
					layout.Rigid(material.Body2(a.Theme, nodesLabel).Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(18)}.Layout),
					layout.Rigid(material.Body2(a.Theme, selLabel).Layout),
					layout.Rigid(layout.Spacer{Width: unit.Dp(18)}.Layout),
					layout.Rigid(material.Body2(a.Theme, zoomLabel).Layout),
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						return layout.Dimensions{}
					}),
					layout.Rigid(material.Body2(a.Theme, state.Status).Layout),
				)
			})
		}),
	)
}

// resetTreeWidgets drops widget state keyed by node path or property name
// when a new tree is installed, so entries from previous files do not
// accumulate for the life of the session.
func (a *App) resetTreeWidgets(state *StateSnapshot) {
	if state.LoadSeq == a.lastWidgetSeq {
		return
	}
	a.lastWidgetSeq = state.LoadSeq
	a.rowClicks = make(map[string]*widget.Clickable)
	a.discloseClicks = make(map[string]*widget.Clickable)
	a.propClicks = make(map[string]*widget.Clickable)
}

// invalidate requests a new frame.
func (a *App) invalidate() {
	if a.Window != nil {
		a.Window.Invalidate()
	}
}

// logf records a message in the activity pane and the process log.
func (a *App) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if a.logger != nil {
		a.logger.Info(msg)
	}
	a.State.AppendLog(fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), msg))
}

// LoadFile parses path and installs the resulting tree. Safe to call from
// dialog goroutines; the camera refits on the next frame.
func (a *App) LoadFile(path string) {
	parser, err := devicetree.NewParser()
	if err != nil {
		a.logf("Parser init failed: %v", err)
		return
	}
	root, err := parser.ParseFile(path)
	if err != nil {
		a.State.SetLoadError(fmt.Sprintf("Failed to load %s: %v", filepath.Base(path), err))
		a.State.SetStatus("Parse failed")
		a.logf("Parse failed: %v", err)
		return
	}
	a.State.SetTree(root, path)
	snap := a.State.Snapshot()
	a.State.SetStatus(fmt.Sprintf("Loaded %s: %d nodes", filepath.Base(path), len(snap.Layout.Nodes)))
	a.logf("Loaded %s (%d nodes)", path, len(snap.Layout.Nodes))
}

func (a *App) openFileDialog() {
	if a.picker == nil {
		return
	}
	go func() {
		file, err := a.picker.ChooseFile("dts", "dtsi")
		if err != nil {
			if err != explorer.ErrUserDecline {
				a.logf("File picker failed: %v", err)
			}
			return
		}
		defer file.Close()

		if f, ok := file.(*os.File); ok {
			a.LoadFile(f.Name())
		} else {
			a.logf("Unable to get file path from picker")
		}
	}()
}

// saveFile writes the tree back to its file, or opens a save dialog when
// the tree has no path yet.
func (a *App) saveFile() {
	snap := a.State.Snapshot()
	if !snap.HasTree() {
		a.State.SetStatus("Nothing to save")
		return
	}
	if snap.FilePath == "" {
		a.saveFileDialog()
		return
	}
	a.writeTree(snap.FilePath)
}

func (a *App) writeTree(path string) {
	source, ok := a.State.SerializeTree()
	if !ok {
		return
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		a.State.SetStatus("Save failed")
		a.logf("Save failed: %v", err)
		return
	}
	a.State.MarkSaved(path)
	a.State.SetStatus(fmt.Sprintf("Saved %s", filepath.Base(path)))
	a.logf("Saved %s", path)
}

func (a *App) saveFileDialog() {
	if a.picker == nil {
		return
	}
	go func() {
		file, err := a.picker.CreateFile("devicetree.dts")
		if err != nil {
			if err != explorer.ErrUserDecline {
				a.logf("Save dialog failed: %v", err)
			}
			return
		}
		source, ok := a.State.SerializeTree()
		if !ok {
			file.Close()
			return
		}
		_, werr := file.Write([]byte(source))
		cerr := file.Close()
		if werr != nil {
			a.logf("Save failed: %v", werr)
			return
		}
		if cerr != nil {
			a.logf("Save failed: %v", cerr)
			return
		}
		if f, ok := file.(*os.File); ok {
			a.State.MarkSaved(f.Name())
			a.State.SetStatus(fmt.Sprintf("Saved %s", filepath.Base(f.Name())))
			a.logf("Saved %s", f.Name())
		} else {
			a.State.SetStatus("Saved")
		}
	}()
}

// exportSelected writes the selected subtree to a .dtsi include fragment
// chosen through a save dialog.
func (a *App) exportSelected() {
	fragment, name, ok := a.State.ExportSelected()
	if !ok {
		a.State.SetStatus("Select a node to export")
		return
	}
	if a.picker == nil {
		return
	}
	go func() {
		file, err := a.picker.CreateFile(name)
		if err != nil {
			if err != explorer.ErrUserDecline {
				a.logf("Export dialog failed: %v", err)
			}
			return
		}
		_, werr := file.Write([]byte(fragment))
		cerr := file.Close()
		if werr != nil {
			a.logf("Export failed: %v", werr)
			return
		}
		if cerr != nil {
			a.logf("Export failed: %v", cerr)
			return
		}
		if f, ok := file.(*os.File); ok {
			a.State.SetStatus(fmt.Sprintf("Exported %s", filepath.Base(f.Name())))
			a.logf("Exported %s", f.Name())
		} else {
			a.State.SetStatus("Fragment exported")
		}
	}()
}

func (a *App) fitToView(state *StateSnapshot) {
	if !state.HasTree() {
		return
	}
	a.camera.Fit(state.Layout.Bounds)
	a.invalidate()
}
