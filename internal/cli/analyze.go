package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sketchio "github.com/websketch/websketch/pkg/io"
	"github.com/websketch/websketch/pkg/layout"
)

// analyzeCommand creates the analyze command for inspecting sketch layouts.
func (c *CLI) analyzeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [sketch.json]",
		Short: "Print the layout analysis for a sketch file",
		Long: `Print the layout analysis for a sketch file.

The analysis is the same structured description of component positions,
spatial relationships, and regional grouping that the editing pipeline
hands to the model. Useful for checking what the agent "sees" before
sending an instruction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw analysis as JSON")

	return cmd
}

func (c *CLI) runAnalyze(path string, asJSON bool) error {
	components, err := sketchio.LoadFile(path)
	if err != nil {
		return err
	}

	analysis := layout.Analyze(components)

	if asJSON {
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("encode analysis: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}

	fmt.Println(StyleTitle.Render("Layout Analysis"))
	printNewline()
	printKeyValue("Description", analysis.Description)
	printKeyValue("Components", fmt.Sprintf("%d", analysis.LayoutStats.ComponentCount))
	printKeyValue("Canvas", fmt.Sprintf("%.0f × %.0f px", analysis.LayoutStats.CanvasWidth, analysis.LayoutStats.CanvasHeight))
	printNewline()

	for _, comp := range analysis.Components {
		fmt.Println("  " + StyleHighlight.Render(comp.ID))
		printDetail("%s", comp.Description)
	}

	if len(analysis.SpatialRelationships) > 0 {
		printNewline()
		fmt.Println(StyleTitle.Render("Relationships"))
		for _, rel := range analysis.SpatialRelationships {
			line := fmt.Sprintf("%s %s %s %s", rel.Component1, iconArrow, rel.Relationship, rel.Component2)
			if rel.Distance != nil {
				line += fmt.Sprintf(" (%.0fpx)", *rel.Distance)
			}
			printDetail("%s", line)
		}
	}
	return nil
}
