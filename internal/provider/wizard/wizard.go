// Package wizard binds the legacy wizard generations of the provider. Both
// legacy layouts expose the same search-wizard tables; they differ only in
// where the tables live on disk. A wizard search is synchronous and returns
// plain rows in the legacy column vocabulary.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/emirks/yokatlas-bridge/internal/provider"
	"github.com/emirks/yokatlas-bridge/internal/provider/atlas"
)

// Table paths per layout, relative to the install root.
var (
	objectTables = map[provider.Tier]string{
		provider.TierLisans:   "wizard/lisans_tercih_sihirbazi.json",
		provider.TierOnlisans: "wizard/onlisans_tercih_sihirbazi.json",
	}
	moduleTables = map[provider.Tier]string{
		provider.TierLisans:   "lisans/tercih_sihirbazi/table.json",
		provider.TierOnlisans: "onlisans/tercih_sihirbazi/table.json",
	}
)

// Driver is a legacy wizard binding for one of the two legacy layouts.
type Driver struct {
	generation provider.Generation
	root       string
	tables     map[provider.Tier]string
	atlas      map[provider.Tier]*atlas.Client
	logger     *slog.Logger
	httpClient *http.Client

	mu     sync.Mutex
	loaded map[provider.Tier][]map[string]any
}

// Option configures a Driver.
type Option func(*Driver)

// WithHTTPClient overrides the HTTP client used for atlas detail fetches.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Driver) { d.httpClient = hc }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// ProbeObject binds the wizard-object layout under root.
func ProbeObject(root, baseURL string, opts ...Option) (*Driver, error) {
	return probe(provider.GenerationLegacyObject, root, baseURL, objectTables, opts...)
}

// ProbeModule binds the per-submodule wizard layout under root.
func ProbeModule(root, baseURL string, opts ...Option) (*Driver, error) {
	return probe(provider.GenerationLegacyModule, root, baseURL, moduleTables, opts...)
}

func probe(gen provider.Generation, root, baseURL string, tables map[provider.Tier]string, opts ...Option) (*Driver, error) {
	for _, rel := range tables {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			return nil, fmt.Errorf("%s layout not found: %w", gen, err)
		}
	}

	d := &Driver{
		generation: gen,
		root:       root,
		tables:     tables,
		logger:     slog.Default(),
		httpClient: http.DefaultClient,
		loaded:     make(map[provider.Tier][]map[string]any),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.atlas = map[provider.Tier]*atlas.Client{
		provider.TierLisans: atlas.New(baseURL, provider.TierLisans,
			atlas.WithHTTPClient(d.httpClient), atlas.WithLogger(d.logger)),
		provider.TierOnlisans: atlas.New(baseURL, provider.TierOnlisans,
			atlas.WithHTTPClient(d.httpClient), atlas.WithLogger(d.logger)),
	}
	return d, nil
}

// Generation implements provider.Binding.
func (d *Driver) Generation() provider.Generation {
	return d.generation
}

// Search implements provider.Binding. Parameters must already be in the
// legacy wizard vocabulary (uni_adi, program_adi, ...); the wizard filters
// its table synchronously and returns every match, leaving display
// truncation to the caller so the total stays truthful.
func (d *Driver) Search(tier provider.Tier, params provider.Params, _ provider.SearchOptions) (*provider.Result, error) {
	rows, err := d.table(tier)
	if err != nil {
		return nil, err
	}

	var matches []map[string]any
	for _, row := range rows {
		if matchesWizard(row, params) {
			matches = append(matches, row)
		}
	}

	d.logger.Debug("wizard search completed",
		slog.String("generation", d.generation.String()),
		slog.String("tier", string(tier)),
		slog.Int("matches", len(matches)))

	return &provider.Result{
		Rows:       matches,
		TotalFound: len(matches),
	}, nil
}

// FetchDetails implements provider.Binding.
func (d *Driver) FetchDetails(ctx context.Context, tier provider.Tier, programID string, year int) (map[string]any, error) {
	return d.atlas[tier].FetchAll(ctx, programID, year)
}

// table loads and caches the wizard table for tier.
func (d *Driver) table(tier provider.Tier) ([]map[string]any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if rows, ok := d.loaded[tier]; ok {
		return rows, nil
	}

	path := filepath.Join(d.root, d.tables[tier])
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wizard table: %w", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse wizard table %s: %w", path, err)
	}

	d.loaded[tier] = rows
	return rows, nil
}

// matchesWizard applies the legacy wizard filter semantics to one row.
// Text columns match by folded substring, ucret_burs by folded equality,
// puan_min/puan_max as a range over taban_puan. Control columns (page) and
// unknown keys are ignored.
func matchesWizard(row map[string]any, params provider.Params) bool {
	for key, val := range params {
		switch key {
		case "uni_adi", "program_adi", "sehir_adi":
			want, _ := val.(string)
			if want == "" {
				continue
			}
			have, _ := row[key].(string)
			if !strings.Contains(provider.Fold(have), provider.Fold(want)) {
				return false
			}
		case "ucret_burs":
			want, _ := val.(string)
			if want == "" {
				continue
			}
			have, _ := row[key].(string)
			if provider.Fold(have) != provider.Fold(want) {
				return false
			}
		case "puan_min":
			if puan, ok := rowPuan(row); ok && puan < toFloat(val) {
				return false
			}
		case "puan_max":
			if puan, ok := rowPuan(row); ok && puan > toFloat(val) {
				return false
			}
		}
	}
	return true
}

func rowPuan(row map[string]any) (float64, bool) {
	switch v := row["taban_puan"].(type) {
	case float64:
		return v, true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return 0
}
