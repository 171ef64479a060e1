package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/websketch/websketch/internal/config"
	"github.com/websketch/websketch/pkg/session"
)

// cliSessionTTL is how long locally stored editing sessions survive between
// invocations. Much longer than the server-side TTL: a CLI user may come back
// to a sketch days later.
const cliSessionTTL = 30 * 24 * time.Hour

// sessionCommand creates the session command with subcommands.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage local editing sessions",
		Long: `Manage local editing sessions.

Sessions created by 'edit' are stored in ~/.config/websketch/sessions/ and
keep the sketch history and conversation so follow-up instructions can refer
back to earlier edits. Expired sessions are skipped by 'list' and removed
by 'cleanup'.`,
	}

	cmd.AddCommand(c.sessionListCommand())
	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionDeleteCommand())
	cmd.AddCommand(c.sessionCleanupCommand())

	return cmd
}

// newFileSessionStore opens the file-backed session store used by the CLI.
func newFileSessionStore(cfg config.Config) (*session.FileStore, error) {
	return session.NewFileStore(cfg.Session.FileDir, cliSessionTTL)
}

func (c *CLI) sessionListCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored editing sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := newFileSessionStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				printInfo("No stored sessions in %s", store.Path())
				return nil
			}

			model := NewSessionListModel(sessions)
			prog := tea.NewProgram(model)
			final, err := prog.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(SessionListModel); ok && m.Selected != nil {
				printNewline()
				return printSession(m.Selected)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	return cmd
}

func (c *CLI) sessionShowCommand() *cobra.Command {
	var (
		configPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "show [session-id]",
		Short: "Show a stored editing session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := newFileSessionStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			sess, err := store.Get(cmd.Context(), args[0])
			if session.IsNotFound(err) {
				return fmt.Errorf("session %s not found", args[0])
			}
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(sess, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, string(data))
				return nil
			}
			return printSession(sess)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full session as JSON")
	return cmd
}

func (c *CLI) sessionDeleteCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete [session-id]",
		Short: "Delete a stored editing session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := newFileSessionStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted session %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	return cmd
}

func (c *CLI) sessionCleanupCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired session files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			store, err := newFileSessionStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Cleanup(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Removed expired sessions from %s", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	return cmd
}

// printSession renders a stored session for the terminal.
func printSession(sess *session.Session) error {
	fmt.Println(StyleTitle.Render("Session " + sess.ID))
	printNewline()
	printKeyValue("Created", sess.CreatedAt.Local().Format(time.RFC1123))
	printKeyValue("Updated", sess.UpdatedAt.Local().Format(time.RFC1123))
	printKeyValue("Components", fmt.Sprintf("%d", len(sess.CurrentSketch)))
	printKeyValue("Edits", fmt.Sprintf("%d", len(sess.OperationHistory)))
	printKeyValue("Messages", fmt.Sprintf("%d", len(sess.MessageHistory)))

	if len(sess.OperationHistory) > 0 {
		printNewline()
		fmt.Println(StyleTitle.Render("History"))
		for _, record := range sess.OperationHistory {
			printDetail("%s  %d operations", record.Timestamp.Local().Format("Jan 2 15:04"), len(record.Operations))
			for _, op := range record.Operations {
				printOperation(op)
			}
		}
	}
	printNewline()
	printNextStep("Continue this session", fmt.Sprintf("%s edit -s %s sketch.json \"...\"", appName, sess.ID))
	return nil
}
