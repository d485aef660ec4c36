// Package dispatch routes operation names to provider calls.
//
// The dispatcher owns the fixed operation set, parameter validation for
// detail lookups, control-value extraction for searches, and the ranking
// cap. It never writes to stdout: every outcome, success or failure, is
// returned as a JSON-serializable value for the boundary to emit.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/emirks/yokatlas-bridge/internal/config"
	"github.com/emirks/yokatlas-bridge/internal/errors"
	"github.com/emirks/yokatlas-bridge/internal/normalize"
	"github.com/emirks/yokatlas-bridge/internal/provider"
	"github.com/emirks/yokatlas-bridge/internal/translate"
)

// Operation names. The set is closed: anything else yields an
// UnknownFunctionError.
const (
	OpHealthCheck     = "health_check"
	OpLisansDetails   = "get_bachelor_degree_atlas_details"
	OpOnlisansDetails = "get_associate_degree_atlas_details"
	OpSearchLisans    = "search_bachelor_degree_programs"
	OpSearchOnlisans  = "search_associate_degree_programs"
)

// Operations returns every dispatchable operation name, in stable order.
func Operations() []string {
	return []string{
		OpHealthCheck,
		OpLisansDetails,
		OpOnlisansDetails,
		OpSearchLisans,
		OpSearchOnlisans,
	}
}

// Dispatcher maps operation names to provider calls.
type Dispatcher struct {
	capability provider.Capability
	cfg        *config.Config
	logger     *slog.Logger
}

// New creates a Dispatcher over an already-probed provider capability.
func New(capability provider.Capability, cfg *config.Config, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{capability: capability, cfg: cfg, logger: logger}
}

// Dispatch executes one operation and returns its result payload. The
// returned value is always JSON-serializable; provider faults become error
// payloads, never Go errors.
func (d *Dispatcher) Dispatch(ctx context.Context, op string, params provider.Params) any {
	d.logger.Info("dispatching operation", "operation", op, "param_count", len(params))

	if op == OpHealthCheck {
		return d.healthCheck()
	}

	switch op {
	case OpLisansDetails, OpOnlisansDetails, OpSearchLisans, OpSearchOnlisans:
	default:
		d.logger.Warn("unknown operation requested", "operation", op)
		return UnknownFunctionError{Error: fmt.Sprintf("Unknown function: %s", op)}
	}

	if !d.capability.Available {
		return d.moduleUnavailable(op)
	}

	switch op {
	case OpLisansDetails:
		return d.details(ctx, provider.TierLisans, op, params)
	case OpOnlisansDetails:
		return d.details(ctx, provider.TierOnlisans, op, params)
	case OpSearchLisans:
		return d.search(provider.TierLisans, params)
	default:
		return d.search(provider.TierOnlisans, params)
	}
}

// healthCheck reports provider availability. It succeeds in every
// environment, including ones where no generation bound.
func (d *Dispatcher) healthCheck() HealthStatus {
	gen := d.capability.Generation
	status := HealthStatus{
		Status:       "healthy",
		Server:       "YOKATLAS Local Search Server",
		APIVersion:   "v2.0",
		SearchMethod: searchMethodFor(gen),
		Generation:   gen.String(),
		Available:    d.capability.Available,
		Message:      fmt.Sprintf("YOKATLAS provider bound (%s layout)", gen),
	}
	if !d.capability.Available {
		status.Status = "error"
		status.Message = "YOKATLAS provider is not available; only health_check will succeed"
	}
	return status
}

func (d *Dispatcher) moduleUnavailable(op string) ModuleUnavailableError {
	berr := errors.New(errors.ErrCodeModuleNotFound,
		"YOKATLAS provider is not available", nil).
		WithSuggestion(fmt.Sprintf(
			"Install the YOKATLAS datasets under %s or point YOKATLAS_DATA_DIR at an existing installation",
			d.cfg.Provider.DataDir))
	d.logger.Error("operation rejected", "operation", op, "error", berr.Error())

	return ModuleUnavailableError{
		Error:              berr.Message,
		Function:           op,
		Suggestion:         berr.Suggestion,
		Status:             "module_not_found",
		AvailableFunctions: []string{OpHealthCheck},
	}
}

// details performs an atlas detail lookup. Both identifiers are required;
// the provider is never called with a partial key.
func (d *Dispatcher) details(ctx context.Context, tier provider.Tier, op string, params provider.Params) any {
	programID, _ := params["yop_kodu"].(string)
	year, hasYear := intParam(params, "year")
	if programID == "" || !hasYear {
		verr := errors.ValidationError("yop_kodu and year are required")
		d.logger.Warn("detail lookup rejected",
			"operation", op, "program_id", programID, "error", verr.Error())
		return ValidationError{
			Error:     verr.Message,
			Function:  op,
			ProgramID: programID,
		}
	}

	details, err := d.capability.Binding.FetchDetails(ctx, tier, programID, year)
	if err != nil {
		berr := errors.Wrap(errors.ErrCodeFetchFailed, err).
			WithDetail("program_id", programID)
		d.logger.Error("detail lookup failed",
			"operation", op, "program_id", programID, "year", year, "error", berr.Error())
		return DetailError{Error: err.Error(), ProgramID: programID, Year: year}
	}

	d.logger.Info("detail lookup succeeded",
		"operation", op, "program_id", programID, "year", year, "sections", len(details))
	return details
}

// search runs one search operation: control values come out of the caller
// parameters, the remainder is translated for the bound generation, and the
// provider result is normalized into the caller-facing shape.
func (d *Dispatcher) search(tier provider.Tier, params provider.Params) any {
	gen := d.capability.Generation

	maxResults, ok := intParam(params, "max_results")
	if !ok || maxResults <= 0 {
		maxResults = d.cfg.Search.DefaultMaxResults
	}

	siralama, hasSiralama := intParam(params, "siralama")
	if !hasSiralama {
		siralama, hasSiralama = intParam(params, "sıralama")
	}
	if hasSiralama && maxResults > d.cfg.Search.SiralamaCap {
		d.logger.Info("capping results for ranking-centered search",
			"requested", maxResults, "cap", d.cfg.Search.SiralamaCap)
		maxResults = d.cfg.Search.SiralamaCap
	}

	translated := translate.ForGeneration(gen, tier, params)
	d.logger.Debug("parameters translated",
		"tier", string(tier), "generation", gen.String(),
		"in_fields", len(params), "out_fields", len(translated))

	opts := provider.SearchOptions{
		SmartSearch:     true,
		MaxResults:      maxResults,
		ReturnFormatted: gen == provider.GenerationModern,
		Siralama:        siralama,
	}

	res, err := d.capability.Binding.Search(tier, translated, opts)
	if err != nil {
		berr := errors.ProviderFault("search failed", err)
		d.logger.Error("search failed",
			"tier", string(tier), "generation", gen.String(), "error", berr.Error(),
			"cause", err.Error())
		serr := SearchError{
			Error:          err.Error(),
			SearchMethod:   searchMethodFor(gen),
			ParametersUsed: translated,
		}
		if tier == provider.TierOnlisans {
			serr.ProgramType = "associate_degree"
		}
		return serr
	}

	d.logger.Info("search succeeded",
		"tier", string(tier), "generation", gen.String(),
		"total_found", res.TotalFound, "rows", len(res.Rows))

	nopts := normalize.Options{
		SearchMethod: searchMethodFor(gen),
		MethodLabel:  methodLabelFor(gen, tier),
		Fuzzy:        true,
		MaxResults:   maxResults,
		Siralama:     siralama,
	}
	if tier == provider.TierOnlisans {
		nopts.ProgramType = "associate_degree"
	}
	return normalize.Search(res, nopts)
}

func searchMethodFor(gen provider.Generation) string {
	switch gen {
	case provider.GenerationModern:
		return "local_search_v2.0"
	case provider.GenerationLegacyObject, provider.GenerationLegacyModule:
		return "wizard_search"
	default:
		return "unavailable"
	}
}

func methodLabelFor(gen provider.Generation, tier provider.Tier) string {
	label := "Local search v2.0 with bell curve sampling"
	if gen.Legacy() {
		label = "Legacy wizard search"
	}
	if tier == provider.TierOnlisans {
		label += " (Associate Degree)"
	}
	return label
}

// intParam reads a numeric parameter that may arrive as a JSON number
// (float64), a native int, or a digit string.
func intParam(params provider.Params, key string) (int, bool) {
	val, present := params[key]
	if !present {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}
