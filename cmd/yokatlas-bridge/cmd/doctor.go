package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/emirks/yokatlas-bridge/internal/config"
	"github.com/emirks/yokatlas-bridge/internal/provider"
	"github.com/emirks/yokatlas-bridge/internal/provider/detect"
	"github.com/emirks/yokatlas-bridge/internal/ui"
)

// doctorCheck is one diagnostic result.
type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok, warn, fail
	Detail string `json:"detail"`
}

// doctorReport is the machine-readable doctor output.
type doctorReport struct {
	Healthy    bool          `json:"healthy"`
	Generation string        `json:"generation"`
	Checks     []doctorCheck `json:"checks"`
}

func newDoctorCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the provider installation and bridge environment",
		Long: `Run diagnostics against the configured YOKATLAS installation.

Checks:
  - Configuration loads and validates
  - Provider data directory exists
  - A provider generation layout binds
  - Log directory is writable
  - Atlas base URL is well-formed

Use --json for machine-readable output.`,
		Example: `  # Human-readable diagnostics
  yokatlas-bridge doctor

  # JSON output for scripting
  yokatlas-bridge doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runDoctor(cmd *cobra.Command, jsonOutput bool) error {
	out := cmd.OutOrStdout()
	report := buildReport()

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		renderReport(out, report)
	}

	if !report.Healthy {
		return fmt.Errorf("diagnostics found problems")
	}
	return nil
}

func buildReport() doctorReport {
	report := doctorReport{Healthy: true, Generation: provider.GenerationNone.String()}
	add := func(name, status, detail string) {
		report.Checks = append(report.Checks, doctorCheck{Name: name, Status: status, Detail: detail})
		if status == "fail" {
			report.Healthy = false
		}
	}

	cwd, _ := os.Getwd()
	cfg, err := config.Load(cwd)
	if err != nil {
		add("config", "fail", err.Error())
		return report
	}
	add("config", "ok", fmt.Sprintf("data dir %s", cfg.Provider.DataDir))

	if info, statErr := os.Stat(cfg.Provider.DataDir); statErr != nil {
		add("data_dir", "fail", fmt.Sprintf("%s does not exist", cfg.Provider.DataDir))
	} else if !info.IsDir() {
		add("data_dir", "fail", fmt.Sprintf("%s is not a directory", cfg.Provider.DataDir))
	} else {
		add("data_dir", "ok", cfg.Provider.DataDir)
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	capability := detect.Capability(detect.Config{
		DataDir: cfg.Provider.DataDir,
		BaseURL: cfg.Provider.BaseURL,
		Logger:  quiet,
	})
	report.Generation = capability.Generation.String()
	if capability.Available {
		add("provider", "ok", fmt.Sprintf("%s layout bound", capability.Generation))
	} else {
		add("provider", "fail", "no generation layout found; searches and detail lookups will be rejected")
	}

	if writeErr := checkWritable(cfg.Logs.Dir); writeErr != nil {
		add("log_dir", "warn", fmt.Sprintf("%s not writable: %v", cfg.Logs.Dir, writeErr))
	} else {
		add("log_dir", "ok", cfg.Logs.Dir)
	}

	if u, parseErr := url.Parse(cfg.Provider.BaseURL); parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
		add("base_url", "fail", fmt.Sprintf("%s is not a valid http(s) URL", cfg.Provider.BaseURL))
	} else {
		add("base_url", "ok", cfg.Provider.BaseURL)
	}

	return report
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}

func renderReport(out io.Writer, report doctorReport) {
	noColor := ui.DetectNoColor() || !ui.IsTTY(out)
	styles := ui.GetStyles(noColor)

	fmt.Fprintln(out, styles.Header.Render("yokatlas-bridge doctor"))
	fmt.Fprintln(out)

	for _, check := range report.Checks {
		var tag string
		switch check.Status {
		case "ok":
			tag = styles.Success.Render("[OK]  ")
		case "warn":
			tag = styles.Warning.Render("[WARN]")
		default:
			tag = styles.Error.Render("[FAIL]")
		}
		fmt.Fprintf(out, "%s %s %s\n", tag, styles.Label.Render(check.Name), check.Detail)
	}

	fmt.Fprintln(out)
	if report.Healthy {
		fmt.Fprintln(out, styles.Success.Render(fmt.Sprintf("Provider ready (%s layout)", report.Generation)))
	} else {
		fmt.Fprintln(out, styles.Error.Render("Problems found. Fix the failing checks above."))
	}
}
