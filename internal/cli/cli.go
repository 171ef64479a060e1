// Package cli implements the websketch command-line interface.
//
// This package provides commands for running the sketch-editing API server,
// applying one-shot edits to sketch files, inspecting layout analysis, and
// managing locally stored editing sessions. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - serve: Run the HTTP API server
//   - edit: Apply a natural-language edit to a sketch file
//   - analyze: Print the layout analysis for a sketch file
//   - render: Draw a sketch file as an SVG wireframe preview
//   - session: List, show, and delete local editing sessions
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/websketch/websketch/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/websketch/websketch/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "websketch"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Websketch edits UI wireframes from natural-language instructions",
		Long:         `Websketch is an agent that turns natural-language instructions into concrete layout operations on UI wireframe sketches. It can run as an HTTP API server or apply one-shot edits to local sketch files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.completionCommand())

	return root
}
