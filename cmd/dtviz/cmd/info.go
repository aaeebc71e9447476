package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devicetree-tools/dtviz/pkg/devicetree"
	"github.com/devicetree-tools/dtviz/pkg/graph"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.dts>",
	Short: "Print a summary of a device tree file",
	Long: `Parse a device tree source file and print node, property, depth,
phandle, and per-category counts.

Examples:
  dtviz info board.dts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromContext(cmd.Context())

		parser, err := devicetree.NewParser()
		if err != nil {
			return err
		}
		root, err := parser.ParseFile(args[0])
		if err != nil {
			return err
		}
		logger.Debug("parsed", "file", args[0])

		fmt.Print(buildInfoReport(args[0], root))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// buildInfoReport renders the summary text for a parsed tree.
func buildInfoReport(file string, root *devicetree.Node) string {
	var nodes, props, maxDepth, phandles int
	root.Walk(func(n *devicetree.Node, depth int) {
		nodes++
		props += len(n.Properties)
		if depth > maxDepth {
			maxDepth = depth
		}
		if _, ok := n.Phandle(); ok {
			phandles++
		}
	})

	res := graph.Compute(root)
	byIcon := make(map[graph.Icon]int)
	for _, n := range res.Nodes {
		byIcon[res.Placements[n].Icon]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File:       %s\n", file)
	fmt.Fprintf(&b, "Nodes:      %d\n", nodes)
	fmt.Fprintf(&b, "Properties: %d\n", props)
	fmt.Fprintf(&b, "Max depth:  %d\n", maxDepth)
	fmt.Fprintf(&b, "Phandles:   %d\n", phandles)
	b.WriteString("Categories:\n")
	for _, icon := range graph.Icons {
		if c := byIcon[icon]; c > 0 {
			fmt.Fprintf(&b, "  %-21s %d\n", string(icon)+":", c)
		}
	}
	return b.String()
}
