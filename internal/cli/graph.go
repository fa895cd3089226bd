package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cascade/internal/engine"
	"github.com/shaiso/Cascade/internal/render"
)

// NewGraphCmd создаёт команду просмотра графа зависимостей конвейера.
func NewGraphCmd(outputFn func() *Output) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Show the dependency graph of a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			spec, err := loadSpec(args[0])
			if err != nil {
				return err
			}

			g, err := engine.BuildGraph(spec.Decls())
			if err != nil {
				return err
			}

			var text string
			switch format {
			case "levels":
				text, err = render.Levels(g)
			case "topo":
				text, err = render.Topo(g)
			case "reverse":
				text, err = render.Reverse(g)
			case "dot":
				text = render.DOT(g)
			default:
				return fmt.Errorf("unknown format %q (levels, topo, reverse, dot)", format)
			}
			if err != nil {
				return err
			}

			out.Raw(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "levels", "Output format: levels, topo, reverse, dot")

	return cmd
}
