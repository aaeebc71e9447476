package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devicetree-tools/dtviz/pkg/devicetree"
	"github.com/devicetree-tools/dtviz/pkg/errors"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <file.dts> <node-path>",
	Short: "Export a subtree as a .dtsi fragment",
	Long: `Parse a device tree source file and export one node with its
subtree as an include fragment. Phandle values pointing at exported
nodes are rewritten to label references.

Examples:
  dtviz export board.dts /soc/serial@10000000
  dtviz export board.dts /cpus -o cpus.dtsi`,
	Args: cobra.ExactArgs(2),
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

		node := root.FindByPath(normalizePath(args[1]))
		if node == nil {
			return errors.New(errors.ErrCodeNotFound, "no node at %q in %s", args[1], args[0])
		}

		text := devicetree.ExportFragment(node)
		if exportOut == "" {
			fmt.Print(text)
			return nil
		}
		if err := os.WriteFile(exportOut, []byte(text), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "writing %s", exportOut)
		}
		logger.Info("exported", "node", node.Path, "file", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write the fragment to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

// normalizePath makes a node path absolute: a missing leading slash and a
// trailing slash are tolerated, and "/" addresses the root.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimSuffix(p, "/")
}
