package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirks/yokatlas-bridge/internal/config"
	"github.com/emirks/yokatlas-bridge/internal/normalize"
	"github.com/emirks/yokatlas-bridge/internal/provider"
)

// stubBinding records the last provider call and replays canned responses.
type stubBinding struct {
	gen provider.Generation

	lastTier   provider.Tier
	lastParams provider.Params
	lastOpts   provider.SearchOptions

	result    *provider.Result
	searchErr error

	details  map[string]any
	fetchErr error
}

func (s *stubBinding) Generation() provider.Generation { return s.gen }

func (s *stubBinding) Search(tier provider.Tier, params provider.Params, opts provider.SearchOptions) (*provider.Result, error) {
	s.lastTier = tier
	s.lastParams = params
	s.lastOpts = opts
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.result, nil
}

func (s *stubBinding) FetchDetails(ctx context.Context, tier provider.Tier, programID string, year int) (map[string]any, error) {
	s.lastTier = tier
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.details, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Provider.DataDir = "/opt/yokatlas/data"
	cfg.Search.DefaultMaxResults = 100
	cfg.Search.SiralamaCap = 200
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDispatcher(gen provider.Generation, binding *stubBinding) *Dispatcher {
	cap := provider.Capability{
		Available:  binding != nil,
		Generation: gen,
		Binding:    binding,
	}
	return New(cap, testConfig(), testLogger())
}

func TestDispatchUnknownFunction(t *testing.T) {
	d := newDispatcher(provider.GenerationModern, &stubBinding{gen: provider.GenerationModern})

	res := d.Dispatch(context.Background(), "search_graduate_programs", nil)

	payload, ok := res.(UnknownFunctionError)
	require.True(t, ok, "unknown operation must yield UnknownFunctionError, got %T", res)
	assert.Equal(t, "Unknown function: search_graduate_programs", payload.Error)
}

func TestHealthCheckAvailable(t *testing.T) {
	d := newDispatcher(provider.GenerationModern, &stubBinding{gen: provider.GenerationModern})

	res := d.Dispatch(context.Background(), OpHealthCheck, nil)

	status, ok := res.(HealthStatus)
	require.True(t, ok)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "YOKATLAS Local Search Server", status.Server)
	assert.Equal(t, "v2.0", status.APIVersion)
	assert.Equal(t, "local_search_v2.0", status.SearchMethod)
	assert.Equal(t, "modern", status.Generation)
	assert.True(t, status.Available)
}

func TestHealthCheckUnavailable(t *testing.T) {
	d := newDispatcher(provider.GenerationNone, nil)

	res := d.Dispatch(context.Background(), OpHealthCheck, nil)

	status, ok := res.(HealthStatus)
	require.True(t, ok)
	assert.Equal(t, "error", status.Status)
	assert.False(t, status.Available)
	assert.Equal(t, "unavailable", status.SearchMethod)
	assert.Contains(t, status.Message, "not available")
}

func TestModuleUnavailablePayload(t *testing.T) {
	d := newDispatcher(provider.GenerationNone, nil)

	for _, op := range []string{OpLisansDetails, OpOnlisansDetails, OpSearchLisans, OpSearchOnlisans} {
		res := d.Dispatch(context.Background(), op, provider.Params{"universite": "ODTÜ"})

		payload, ok := res.(ModuleUnavailableError)
		require.True(t, ok, "operation %s must be rejected when no provider bound", op)
		assert.Equal(t, op, payload.Function)
		assert.Equal(t, "module_not_found", payload.Status)
		assert.Contains(t, payload.Suggestion, "/opt/yokatlas/data")
		assert.Equal(t, []string{OpHealthCheck}, payload.AvailableFunctions)
	}
}

func TestDetailsMissingParams(t *testing.T) {
	binding := &stubBinding{gen: provider.GenerationModern}
	d := newDispatcher(provider.GenerationModern, binding)

	tests := []struct {
		name   string
		params provider.Params
	}{
		{"no params", provider.Params{}},
		{"missing year", provider.Params{"yop_kodu": "104810245"}},
		{"missing yop_kodu", provider.Params{"year": float64(2024)}},
		{"wrong yop_kodu type", provider.Params{"yop_kodu": 104810245.0, "year": float64(2024)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Dispatch(context.Background(), OpLisansDetails, tt.params)

			payload, ok := res.(ValidationError)
			require.True(t, ok, "got %T", res)
			assert.Equal(t, OpLisansDetails, payload.Function)
			assert.Contains(t, payload.Error, "yop_kodu and year are required")
		})
	}
}

func TestDetailsSuccess(t *testing.T) {
	binding := &stubBinding{
		gen: provider.GenerationModern,
		details: map[string]any{
			"program_id":     "104810245",
			"year":           2024,
			"genel_bilgiler": map[string]any{"kontenjan": "80"},
		},
	}
	d := newDispatcher(provider.GenerationModern, binding)

	res := d.Dispatch(context.Background(), OpOnlisansDetails, provider.Params{
		"yop_kodu": "104810245",
		"year":     float64(2024),
	})

	details, ok := res.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "104810245", details["program_id"])
	assert.Equal(t, provider.TierOnlisans, binding.lastTier)
}

func TestDetailsProviderFault(t *testing.T) {
	binding := &stubBinding{
		gen:      provider.GenerationModern,
		fetchErr: fmt.Errorf("section 1070 unreachable"),
	}
	d := newDispatcher(provider.GenerationModern, binding)

	res := d.Dispatch(context.Background(), OpLisansDetails, provider.Params{
		"yop_kodu": "106510077",
		"year":     float64(2023),
	})

	payload, ok := res.(DetailError)
	require.True(t, ok)
	assert.Equal(t, "section 1070 unreachable", payload.Error)
	assert.Equal(t, "106510077", payload.ProgramID)
	assert.Equal(t, 2023, payload.Year)
}

func TestSearchDefaultMaxResults(t *testing.T) {
	binding := &stubBinding{
		gen:    provider.GenerationModern,
		result: &provider.Result{Typed: true, TotalFound: 0},
	}
	d := newDispatcher(provider.GenerationModern, binding)

	d.Dispatch(context.Background(), OpSearchLisans, provider.Params{"universite": "Boğaziçi"})

	assert.Equal(t, 100, binding.lastOpts.MaxResults)
	assert.True(t, binding.lastOpts.SmartSearch)
	assert.True(t, binding.lastOpts.ReturnFormatted)
}

func TestSearchSiralamaCapsMaxResults(t *testing.T) {
	binding := &stubBinding{
		gen:    provider.GenerationModern,
		result: &provider.Result{Typed: true, TotalFound: 0},
	}
	d := newDispatcher(provider.GenerationModern, binding)

	d.Dispatch(context.Background(), OpSearchLisans, provider.Params{
		"program":     "Bilgisayar",
		"siralama":    float64(20000),
		"max_results": float64(500),
	})

	assert.Equal(t, 200, binding.lastOpts.MaxResults, "ranking-centered searches are capped")
	assert.Equal(t, 20000, binding.lastOpts.Siralama)
}

func TestSearchTurkishSiralamaAlias(t *testing.T) {
	binding := &stubBinding{
		gen:    provider.GenerationModern,
		result: &provider.Result{Typed: true, TotalFound: 0},
	}
	d := newDispatcher(provider.GenerationModern, binding)

	d.Dispatch(context.Background(), OpSearchLisans, provider.Params{
		"sıralama":    float64(15000),
		"max_results": float64(300),
	})

	assert.Equal(t, 15000, binding.lastOpts.Siralama)
	assert.Equal(t, 200, binding.lastOpts.MaxResults)
}

func TestSearchLegacyTranslation(t *testing.T) {
	binding := &stubBinding{
		gen:    provider.GenerationLegacyObject,
		result: &provider.Result{TotalFound: 0},
	}
	d := newDispatcher(provider.GenerationLegacyObject, binding)

	d.Dispatch(context.Background(), OpSearchOnlisans, provider.Params{
		"universite":  "Anadolu",
		"max_results": float64(50),
	})

	require.NotNil(t, binding.lastParams)
	assert.Equal(t, "Anadolu", binding.lastParams["uni_adi"], "caller field renamed for wizard")
	assert.NotContains(t, binding.lastParams, "universite")
	assert.NotContains(t, binding.lastParams, "max_results", "control values never reach the provider")
	assert.Equal(t, 1, binding.lastParams["page"])
	assert.Equal(t, 150.0, binding.lastParams["puan_min"], "associate tier score floor injected")
	assert.Equal(t, 560.0, binding.lastParams["puan_max"])
	assert.False(t, binding.lastOpts.ReturnFormatted, "legacy generations have no formatted mode")
}

func TestSearchProviderFault(t *testing.T) {
	binding := &stubBinding{
		gen:       provider.GenerationLegacyModule,
		searchErr: fmt.Errorf("wizard table unreadable"),
	}
	d := newDispatcher(provider.GenerationLegacyModule, binding)

	res := d.Dispatch(context.Background(), OpSearchOnlisans, provider.Params{"sehir": "İzmir"})

	payload, ok := res.(SearchError)
	require.True(t, ok)
	assert.Equal(t, "wizard table unreadable", payload.Error)
	assert.Equal(t, "wizard_search", payload.SearchMethod)
	assert.Equal(t, "associate_degree", payload.ProgramType)
	assert.Equal(t, "İzmir", payload.ParametersUsed["sehir_adi"], "echoed parameters are the translated ones")
}

func TestSearchEnvelope(t *testing.T) {
	binding := &stubBinding{
		gen: provider.GenerationModern,
		result: &provider.Result{
			Rows: []map[string]any{
				{"yop_kodu": "102210277", "program_adi": "Tıp", "taban_puan": 520.5},
			},
			Typed:      true,
			TotalFound: 1,
		},
	}
	d := newDispatcher(provider.GenerationModern, binding)

	res := d.Dispatch(context.Background(), OpSearchLisans, provider.Params{"program": "Tıp"})

	env, ok := res.(*normalize.SearchEnvelope)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, 1, env.TotalFound)
	assert.Equal(t, "local_search_v2.0", env.SearchMethod)
	assert.True(t, env.FuzzyMatching)
	assert.Empty(t, env.ProgramType, "bachelor searches carry no program_type")
	require.Len(t, env.Programs, 1)
}

func TestOperationsStable(t *testing.T) {
	ops := Operations()
	require.Len(t, ops, 5)
	assert.Equal(t, OpHealthCheck, ops[0])
}
