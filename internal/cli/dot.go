package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christophertubbs/erdantic/pkg/erd"
	"github.com/christophertubbs/erdantic/pkg/render/dot"
)

// dotCommand creates the dot command for printing Graphviz DOT to stdout.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		depth    int
		vertical bool
		roots    []string
	)

	cmd := &cobra.Command{
		Use:   "dot [schema.toml]",
		Short: "Print the diagram as Graphviz DOT",
		Long: `Print the Graphviz DOT representation of a schema's diagram to stdout.

Useful for piping into other Graphviz tooling:

  erdantic dot party.toml | dot -Tpdf -o party.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diagram, err := c.buildDiagram(args[0], roots, depth, vertical)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), dot.ToDOT(diagram))
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", erd.DefaultDepthLimit, "how many composition levels to follow from the roots")
	cmd.Flags().BoolVar(&vertical, "vertical", false, "lay models out top to bottom instead of left to right")
	cmd.Flags().StringArrayVarP(&roots, "root", "r", nil, "model name to use as a diagram root (repeatable; default: all models)")

	return cmd
}
