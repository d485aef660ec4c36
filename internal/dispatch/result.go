package dispatch

import (
	"github.com/emirks/yokatlas-bridge/internal/provider"
)

// HealthStatus is the health_check payload. It always reports availability
// truthfully, even when every other operation would fail.
type HealthStatus struct {
	Status       string `json:"status"`
	Server       string `json:"server"`
	APIVersion   string `json:"api_version"`
	SearchMethod string `json:"search_method"`
	Generation   string `json:"generation"`
	Available    bool   `json:"yokatlas_available"`
	Message      string `json:"message"`
}

// UnknownFunctionError is returned for operation names outside the fixed set.
type UnknownFunctionError struct {
	Error string `json:"error"`
}

// ModuleUnavailableError is returned when no provider generation bound and a
// non-health operation was requested.
type ModuleUnavailableError struct {
	Error              string   `json:"error"`
	Function           string   `json:"function"`
	Suggestion         string   `json:"suggestion"`
	Status             string   `json:"status"`
	AvailableFunctions []string `json:"available_functions"`
}

// ValidationError is returned when a detail lookup is missing required
// parameters; the provider is never invoked.
type ValidationError struct {
	Error     string `json:"error"`
	Function  string `json:"function"`
	ProgramID string `json:"program_id,omitempty"`
}

// DetailError carries a provider fault from a detail lookup, with the
// identifiers needed to reproduce the call.
type DetailError struct {
	Error     string `json:"error"`
	ProgramID string `json:"program_id"`
	Year      int    `json:"year"`
}

// SearchError carries a provider fault from a search, echoing the
// parameters used.
type SearchError struct {
	Error          string          `json:"error"`
	SearchMethod   string          `json:"search_method"`
	ParametersUsed provider.Params `json:"parameters_used"`
	ProgramType    string          `json:"program_type,omitempty"`
}
