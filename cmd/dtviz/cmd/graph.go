package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devicetree-tools/dtviz/pkg/devicetree"
	"github.com/devicetree-tools/dtviz/pkg/devicetree/bindings"
	"github.com/devicetree-tools/dtviz/pkg/graph"
)

var (
	graphOut      string
	graphBindings string
)

var graphCmd = &cobra.Command{
	Use:   "graph <file.dts>",
	Short: "Dump the computed node graph as JSON",
	Long: `Parse a device tree source file, classify and lay out its nodes, and
print the resulting graph (positions, tree edges, phandle reference
edges) as pretty-printed JSON.

Examples:
  dtviz graph board.dts
  dtviz graph board.dts -o layout.json --bindings ./bindings`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromContext(cmd.Context())

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir := graphBindings
		if dir == "" {
			dir = cfg.BindingsDir
		}

		var idx *bindings.Index
		if dir != "" {
			idx, err = bindings.Load(dir)
			if err != nil {
				logger.Warn("bindings directory not indexed", "dir", dir, "err", err)
				idx = nil
			}
		}

		parser, err := devicetree.NewParser()
		if err != nil {
			return err
		}
		root, err := parser.ParseFile(args[0])
		if err != nil {
			return err
		}

		doc := graph.DocumentFor(args[0], root, idx)
		if graphOut != "" {
			if err := graph.WriteDocumentFile(doc, graphOut); err != nil {
				return err
			}
			logger.Info("graph written", "file", graphOut, "nodes", len(doc.Nodes))
			return nil
		}
		data, err := graph.MarshalDocument(doc)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	graphCmd.Flags().StringVarP(&graphOut, "output", "o", "", "write JSON to a file instead of stdout")
	graphCmd.Flags().StringVar(&graphBindings, "bindings", "", "bindings directory for reference edges (default from config)")
	rootCmd.AddCommand(graphCmd)
}
