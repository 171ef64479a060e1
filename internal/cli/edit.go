package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/websketch/websketch/internal/config"
	"github.com/websketch/websketch/pkg/agent"
	sketchio "github.com/websketch/websketch/pkg/io"
	"github.com/websketch/websketch/pkg/sketch"
	"github.com/websketch/websketch/pkg/vision"
)

// editCommand creates the edit command for one-shot sketch edits.
func (c *CLI) editCommand() *cobra.Command {
	var (
		configPath string
		output     string
		sessionID  string
		imagePath  string
	)

	cmd := &cobra.Command{
		Use:   "edit [sketch.json] \"instruction\"",
		Short: "Apply a natural-language edit to a sketch file",
		Long: `Apply a natural-language edit to a sketch file.

The edit command reads a sketch (a JSON array of components), sends the
instruction through the editing pipeline, and writes the modified sketch
back. Without --output the result is printed to stdout.

Passing --session continues a stored editing session so follow-up
instructions ("move it a bit further down") have the conversation history
available. Sessions live in ~/.config/websketch/sessions/.

With --image the sketch file may be omitted: components are detected from
the image first and the instruction is applied to the detected layout.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sketchPath := ""
			message := args[0]
			if len(args) == 2 {
				sketchPath = args[0]
				message = args[1]
			}
			if sketchPath == "" && imagePath == "" {
				return fmt.Errorf("need a sketch file or --image")
			}
			return c.runEdit(cmd.Context(), configPath, sketchPath, message, output, sessionID, imagePath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the modified sketch to this file")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "continue a stored editing session")
	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "detect components from an image first")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, configPath, sketchPath, message, output, sessionID, imagePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("no OpenAI API key configured (set OPENAI_API_KEY)")
	}

	var components []sketch.Component
	if sketchPath != "" {
		components, err = sketchio.LoadFile(sketchPath)
		if err != nil {
			return err
		}
	}

	var imageData []byte
	if imagePath != "" {
		imageData, err = os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
	}

	// One-shot edits use the file backend regardless of configuration so a
	// follow-up invocation with --session finds the conversation.
	store, err := newFileSessionStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	runner := agent.NewRunner(
		newProposer(cfg, cfg.OpenAI.Model),
		vision.NewLLMDetector(newProposer(cfg, cfg.OpenAI.VisionModel)),
		store,
		c.Logger,
	)

	prog := newProgress(loggerFromContext(ctx))
	spin := newSpinnerWithContext(ctx, "Thinking...")
	spin.Start()

	result, runErr := runner.Run(ctx, agent.Request{
		SessionID:     sessionID,
		Message:       message,
		CurrentSketch: components,
		ImageData:     imageData,
	})

	if runErr != nil {
		msg := result.Description
		if msg == "" {
			msg = runErr.Error()
		}
		spin.StopWithError(msg)
		if result.Reasoning != "" {
			printDetail("%s", result.Reasoning)
		}
		return fmt.Errorf("edit failed")
	}
	spin.StopWithSuccess(result.Description)
	prog.done(fmt.Sprintf("Applied %d operations", len(result.Operations)))

	if result.Reasoning != "" {
		printDetail("%s", result.Reasoning)
	}
	if len(result.Operations) > 0 {
		printNewline()
		for _, op := range result.Operations {
			printOperation(op)
		}
	} else {
		printWarning("No changes were needed")
	}
	printNewline()

	if output == "" {
		if err := sketchio.WriteJSON(result.ModifiedSketch, os.Stdout); err != nil {
			return err
		}
	} else {
		if err := sketchio.SaveFile(result.ModifiedSketch, output); err != nil {
			return err
		}
		printFile(output)
	}
	printNextStep("Continue this session", fmt.Sprintf("%s edit -s %s %s \"...\"", appName, result.SessionID, sketchPath))
	return nil
}
