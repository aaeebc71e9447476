package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/devicetree-tools/dtviz/internal/config"
	"github.com/devicetree-tools/dtviz/internal/ui"
	"github.com/devicetree-tools/dtviz/pkg/devicetree/bindings"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "dtviz [file.dts]",
	Short: "Device tree visualizer",
	Long: `dtviz renders device tree source files as an interactive node graph
with a tree browser and a property inspector.

Examples:
  dtviz                                 # Launch the GUI
  dtviz board.dts                       # Launch the GUI and load a file
  dtviz info board.dts                  # Print a tree summary
  dtviz export board.dts /soc/serial@0  # Export a subtree as .dtsi
  dtviz graph board.dts -o layout.json  # Dump the computed layout`,
	Version:      "0.1.0",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
	},
	RunE: runGUI,
}

// Execute runs the root command under the given signal-aware context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <UserConfigDir>/dtviz/config.toml)")
}

// loadConfig resolves the effective configuration. An explicit --config
// path must exist; the default location may be absent.
func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadDefault()
}

func runGUI(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	state := ui.NewState()
	if cfg.BindingsDir != "" {
		idx, err := bindings.Load(cfg.BindingsDir)
		if err != nil {
			logger.Warn("bindings directory not indexed", "dir", cfg.BindingsDir, "err", err)
		} else {
			state.SetBindings(idx)
			logger.Debug("bindings indexed", "dir", cfg.BindingsDir, "compatibles", idx.Len())
		}
	}

	file := ""
	if len(args) > 0 {
		file = args[0]
	}
	return ui.Run(state, cfg, logger, file)
}
