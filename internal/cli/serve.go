package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/websketch/websketch/internal/api"
	"github.com/websketch/websketch/internal/config"
	"github.com/websketch/websketch/pkg/agent"
	"github.com/websketch/websketch/pkg/llm"
	"github.com/websketch/websketch/pkg/session"
	"github.com/websketch/websketch/pkg/vision"
)

// shutdownTimeout bounds how long in-flight requests may run after SIGTERM.
const shutdownTimeout = 15 * time.Second

// serveCommand creates the serve command for running the HTTP API server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sketch-editing API server",
		Long: `Run the sketch-editing API server.

The server exposes the chat, streaming chat, and session endpoints under
/api/v1/. Configuration is read from a TOML file and overridden by
WEBSKETCH_* and OPENAI_* environment variables. The session backend is
selected via the configuration (memory, redis, mongo, or file).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("no OpenAI API key configured (set OPENAI_API_KEY)")
	}

	runner := agent.NewRunner(
		newProposer(cfg, cfg.OpenAI.Model),
		vision.NewLLMDetector(newProposer(cfg, cfg.OpenAI.VisionModel)),
		store,
		c.Logger,
	)

	server := api.NewServer(runner, store, cfg.Server, c.Logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("server listening", "addr", cfg.Server.Addr, "backend", cfg.Session.Backend)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newProposer builds an OpenAI-backed proposer for the given model name.
func newProposer(cfg config.Config, model string) llm.Proposer {
	var opts []llm.Option
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, llm.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return llm.NewOpenAIClient(cfg.OpenAI.APIKey, model, cfg.OpenAI.Temperature, opts...)
}

// newStore constructs the session store named by the configuration.
func newStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case "memory", "":
		return session.NewMemoryStore(cfg.Session.TTL()), nil
	case "redis":
		return session.NewRedisStore(ctx, cfg.Session.RedisURL, cfg.Session.TTL())
	case "mongo":
		return session.NewMongoStore(ctx, cfg.Session.MongoURI, cfg.Session.MongoDB, cfg.Session.TTL())
	case "file":
		return session.NewFileStore(cfg.Session.FileDir, cfg.Session.TTL())
	default:
		return nil, fmt.Errorf("unknown session backend %q (want memory, redis, mongo, or file)", cfg.Session.Backend)
	}
}
