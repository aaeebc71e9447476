package ui

import (
	"os"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/charmbracelet/log"

	"github.com/devicetree-tools/dtviz/internal/config"
)

// Run launches the Gio UI and blocks until the window closes. When file
// is empty the configured default file is loaded if it exists.
func Run(state *AppState, cfg config.Config, logger *log.Logger, file string) error {
	if state == nil {
		state = NewState()
	}

	go func() {
		w := new(app.Window)
		w.Option(app.Title("Device Tree Visualizer"), app.Size(unit.Dp(1200), unit.Dp(800)))
		ui := New(w, state, cfg, logger)

		if file == "" && cfg.DefaultFile != "" {
			if _, err := os.Stat(cfg.DefaultFile); err == nil {
				file = cfg.DefaultFile
			}
		}
		if file != "" {
			ui.LoadFile(file)
		}

		if err := ui.Run(); err != nil {
			logger.Error("ui terminated", "err", err)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
