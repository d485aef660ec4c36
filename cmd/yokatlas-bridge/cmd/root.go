// Package cmd provides the CLI commands for the YOKATLAS bridge.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emirks/yokatlas-bridge/internal/config"
	"github.com/emirks/yokatlas-bridge/internal/dispatch"
	"github.com/emirks/yokatlas-bridge/internal/logging"
	"github.com/emirks/yokatlas-bridge/internal/provider"
	"github.com/emirks/yokatlas-bridge/internal/provider/detect"
	"github.com/emirks/yokatlas-bridge/pkg/version"
)

// NewRootCmd creates the root command. The root invocation is the one-shot
// bridge: first positional argument is the function name, the optional second
// argument is a JSON parameter object. Exactly one JSON document is written
// to stdout in every case.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yokatlas-bridge <function> [parameters-json]",
		Short: "One-shot JSON bridge to the YOKATLAS higher-education data",
		Long: `yokatlas-bridge dispatches one named function against the installed
YOKATLAS provider and prints a single JSON document on stdout.

Functions:
  health_check
  search_bachelor_degree_programs
  search_associate_degree_programs
  get_bachelor_degree_atlas_details
  get_associate_degree_atlas_details

Diagnostics go to stderr and a daily log file, never to stdout.`,
		Example: `  # Is the provider installed?
  yokatlas-bridge health_check

  # Search bachelor programs
  yokatlas-bridge search_bachelor_degree_programs '{"universite":"ODTÜ","max_results":20}'

  # Fetch atlas details for one program
  yokatlas-bridge get_bachelor_degree_atlas_details '{"yop_kodu":"104810245","year":2024}'`,
		Version:       version.Version,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBridge(cmd.Context(), cmd, args)
		},
	}

	cmd.SetVersionTemplate("yokatlas-bridge version {{.Version}}\n")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// runBridge is the READING_INPUT -> DISPATCHING -> EMITTING pipeline.
// Boundary failures (missing function, bad JSON, panic) emit an error
// document and exit 1; dispatched payloads, structured error payloads
// included, exit 0.
func runBridge(ctx context.Context, cmd *cobra.Command, args []string) (err error) {
	stdout := cmd.OutOrStdout()

	if len(args) == 0 {
		emit(stdout, map[string]string{"error": "No function specified"})
		return fmt.Errorf("no function specified")
	}
	op := args[0]

	params := provider.Params{}
	if len(args) == 2 && strings.TrimSpace(args[1]) != "" {
		if jsonErr := json.Unmarshal([]byte(args[1]), &params); jsonErr != nil {
			emit(stdout, map[string]string{"error": "Invalid JSON parameters"})
			return fmt.Errorf("invalid JSON parameters: %w", jsonErr)
		}
	}

	cwd, _ := os.Getwd()
	cfg, cfgErr := config.Load(cwd)
	if cfgErr != nil {
		emit(stdout, map[string]string{"error": cfgErr.Error()})
		return cfgErr
	}

	logger, cleanup := setupLogging(cfg)
	defer cleanup()
	logger = logger.With(slog.String("invocation_id", uuid.NewString()))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic recovered",
				slog.String("panic", fmt.Sprint(r)),
				slog.String("stack", string(debug.Stack())))
			emit(stdout, map[string]string{"error": fmt.Sprint(r)})
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	capability := detect.Capability(detect.Config{
		DataDir: cfg.Provider.DataDir,
		BaseURL: cfg.Provider.BaseURL,
		Logger:  logger,
	})

	dispatcher := dispatch.New(capability, cfg, logger)
	payload := dispatcher.Dispatch(ctx, op, params)

	return emit(stdout, payload)
}

// setupLogging opens the daily log sink. A failing sink never blocks an
// invocation: diagnostics fall back to stderr alone.
func setupLogging(cfg *config.Config) (*slog.Logger, func()) {
	logger, cleanup, err := logging.Setup(logging.Config{
		Level:         cfg.Logs.Level,
		Dir:           cfg.Logs.Dir,
		WriteToStderr: true,
	})
	if err != nil {
		fallback := slog.New(slog.NewTextHandler(os.Stderr, nil))
		fallback.Warn("log file unavailable, using stderr only", slog.String("error", err.Error()))
		return fallback, func() {}
	}
	return logger, cleanup
}

// emit writes the single stdout JSON document.
func emit(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(payload)
}
