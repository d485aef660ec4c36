// Package detect performs the startup capability probe. It tries the
// provider generations in strict preference order and records which one
// bound; the outcome is computed once and handed to the dispatcher as
// read-only configuration.
package detect

import (
	"log/slog"
	"net/http"

	"github.com/emirks/yokatlas-bridge/internal/provider"
	"github.com/emirks/yokatlas-bridge/internal/provider/modern"
	"github.com/emirks/yokatlas-bridge/internal/provider/wizard"
)

// Config locates the provider installation for probing.
type Config struct {
	// DataDir is the provider install root.
	DataDir string
	// BaseURL is the atlas endpoint base for detail fetches.
	BaseURL string
	// HTTPClient overrides the atlas HTTP client (tests).
	HTTPClient *http.Client
	// Logger receives the probe diagnostic line. Defaults to slog.Default.
	Logger *slog.Logger
}

// Capability probes MODERN, then LEGACY_OBJECT, then LEGACY_MODULE. The
// first successful bind wins; later tiers are not attempted. Absence of the
// provider is a normal state, not an error: the returned Capability simply
// reports unavailable.
func Capability(cfg Config) provider.Capability {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	probes := []func() (provider.Binding, error){
		func() (provider.Binding, error) {
			return modern.Probe(cfg.DataDir, cfg.BaseURL,
				modern.WithHTTPClient(httpClient), modern.WithLogger(logger))
		},
		func() (provider.Binding, error) {
			return wizard.ProbeObject(cfg.DataDir, cfg.BaseURL,
				wizard.WithHTTPClient(httpClient), wizard.WithLogger(logger))
		},
		func() (provider.Binding, error) {
			return wizard.ProbeModule(cfg.DataDir, cfg.BaseURL,
				wizard.WithHTTPClient(httpClient), wizard.WithLogger(logger))
		},
	}

	for _, probe := range probes {
		binding, err := probe()
		if err != nil {
			continue
		}
		logger.Info("provider bound",
			slog.String("generation", binding.Generation().String()),
			slog.String("data_dir", cfg.DataDir))
		return provider.Capability{
			Available:  true,
			Generation: binding.Generation(),
			Binding:    binding,
		}
	}

	logger.Error("failed to bind yokatlas provider at any tier",
		slog.String("data_dir", cfg.DataDir))
	return provider.Capability{Generation: provider.GenerationNone}
}
