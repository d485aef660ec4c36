package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emirks/yokatlas-bridge/internal/config"
	"github.com/emirks/yokatlas-bridge/internal/dispatch"
	"github.com/emirks/yokatlas-bridge/internal/mcp"
	"github.com/emirks/yokatlas-bridge/internal/provider/detect"
)

// newServeCmd creates the serve command: the bridge as a long-lived MCP
// server over stdio, exposing the same five functions as tools.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bridge as an MCP server over stdio",
		Long: `Serve keeps one process alive and exposes the bridge functions as MCP
tools for AI clients. Tool results are the exact payloads the one-shot
invocation would print. stdout carries the MCP transport, so all
diagnostics go to stderr and the daily log file.`,
		Example: `  # Register with an MCP client
  yokatlas-bridge serve`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cwd, _ := os.Getwd()
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}

	logger, cleanup := setupLogging(cfg)
	defer cleanup()
	logger = logger.With("session_id", uuid.NewString())

	capability := detect.Capability(detect.Config{
		DataDir: cfg.Provider.DataDir,
		BaseURL: cfg.Provider.BaseURL,
		Logger:  logger,
	})
	if !capability.Available {
		logger.Warn("serving without a provider; only health_check will succeed")
	}

	dispatcher := dispatch.New(capability, cfg, logger)
	server, err := mcp.NewServer(dispatcher, logger)
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}
