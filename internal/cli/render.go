package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	sketchio "github.com/websketch/websketch/pkg/io"
	"github.com/websketch/websketch/pkg/render"
)

// renderCommand creates the render command for SVG wireframe previews.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		showIDs bool
	)

	cmd := &cobra.Command{
		Use:   "render [sketch.json]",
		Short: "Render a sketch file as an SVG wireframe preview",
		Long: `Render a sketch file as an SVG wireframe preview.

Each component is drawn at its stored position and size, styled by type:
buttons filled, inputs outlined, image placeholders crossed out, lines
drawn as lines. Without --output the SVG is written next to the input
file with a .svg extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(args[0], output, showIDs)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG file (default: input basename + .svg)")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "annotate components with their ids")

	return cmd
}

func (c *CLI) runRender(path, output string, showIDs bool) error {
	components, err := sketchio.LoadFile(path)
	if err != nil {
		return err
	}

	var opts []render.Option
	if showIDs {
		opts = append(opts, render.WithIDs())
	}
	svg := render.SVG(components, opts...)

	if output == "" {
		output = strings.TrimSuffix(path, ".json") + ".svg"
	}
	if err := os.WriteFile(output, svg, 0644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}

	printSuccess("Rendered %d components", len(components))
	printFile(output)
	return nil
}
