// Package modern binds the unified local-search generation of the provider:
// cached JSON datasets queried through an in-memory full-text index, typed
// records, and optional pre-formatted output.
package modern

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/emirks/yokatlas-bridge/internal/provider"
	"github.com/emirks/yokatlas-bridge/internal/provider/atlas"
)

// Dataset files the modern layout exposes under the install root.
const (
	lisansDataset   = "data/lisans_programs.json"
	onlisansDataset = "data/onlisans_programs.json"
)

// datasetCacheSize bounds the parsed-dataset cache. Two tiers are live at a
// time; headroom covers datasets swapped under a running serve process.
const datasetCacheSize = 4

// siralamaFetchLimit bounds how many candidate rows are pulled from the
// index before the ranking-centered window is selected.
const siralamaFetchLimit = 1000

// queryFields maps modern caller parameter names to indexed record fields.
var queryFields = map[string]string{
	"universite":      "uni_adi",
	"program":         "program_adi",
	"sehir":           "sehir_adi",
	"ucret":           "ucret_burs",
	"puan_turu":       "puan_turu",
	"ogretim_turu":    "ogretim_turu",
	"universite_turu": "universite_turu",
}

// Driver is the modern-generation binding.
type Driver struct {
	root       string
	atlas      map[provider.Tier]*atlas.Client
	cache      *lru.Cache[string, *dataset]
	logger     *slog.Logger
	httpClient *http.Client
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

// Probe binds the modern generation if the unified datasets are installed
// under root. A missing layout is reported as an error to the detector, not
// to callers.
func Probe(root, baseURL string, opts ...Option) (*Driver, error) {
	for _, rel := range []string{lisansDataset, onlisansDataset} {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			return nil, fmt.Errorf("modern layout not found: %w", err)
		}
	}

	cache, err := lru.New[string, *dataset](datasetCacheSize)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		root:       root,
		cache:      cache,
		logger:     slog.Default(),
		httpClient: http.DefaultClient,
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
	return provider.GenerationModern
}

// Search implements provider.Binding. Parameters arrive in the modern
// vocabulary; unknown keys are ignored.
func (d *Driver) Search(tier provider.Tier, params provider.Params, opts provider.SearchOptions) (*provider.Result, error) {
	ds, err := d.dataset(tier)
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequest(buildQuery(params, opts.SmartSearch))
	req.Size = opts.MaxResults
	if opts.Siralama > 0 || req.Size <= 0 {
		req.Size = siralamaFetchLimit
	}

	res, err := ds.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("local search failed: %w", err)
	}

	rows := make([]map[string]any, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if row, ok := ds.byID[hit.ID]; ok {
			rows = append(rows, row)
		}
	}

	totalFound := int(res.Total)
	if opts.Siralama > 0 {
		rows = centerOnSiralama(rows, opts.Siralama, opts.MaxResults)
	}

	result := &provider.Result{
		Rows:       rows,
		Typed:      true,
		TotalFound: totalFound,
	}
	if opts.ReturnFormatted {
		result.Formatted = formatPrograms(rows, opts.MaxResults)
	}

	d.logger.Debug("modern search completed",
		slog.String("tier", string(tier)),
		slog.Int("total_found", totalFound),
		slog.Int("returned", len(rows)))

	return result, nil
}

// FetchDetails implements provider.Binding.
func (d *Driver) FetchDetails(ctx context.Context, tier provider.Tier, programID string, year int) (map[string]any, error) {
	return d.atlas[tier].FetchAll(ctx, programID, year)
}

// dataset returns the parsed, indexed dataset for tier, loading it on first
// use. The LRU keeps serve-mode searches from re-parsing every call.
func (d *Driver) dataset(tier provider.Tier) (*dataset, error) {
	rel := lisansDataset
	if tier == provider.TierOnlisans {
		rel = onlisansDataset
	}
	path := filepath.Join(d.root, rel)

	if ds, ok := d.cache.Get(path); ok {
		return ds, nil
	}

	ds, err := loadDataset(path)
	if err != nil {
		return nil, err
	}
	d.cache.Add(path, ds)
	return ds, nil
}

// dataset is one parsed program table plus its in-memory index.
type dataset struct {
	byID  map[string]map[string]any
	index bleve.Index
}

// loadDataset parses the JSON program table and builds the search index.
func loadDataset(path string) (*dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	ds := &dataset{
		byID:  make(map[string]map[string]any, len(rows)),
		index: index,
	}

	batch := index.NewBatch()
	for i, row := range rows {
		id, _ := row["yop_kodu"].(string)
		if id == "" {
			id = fmt.Sprintf("row-%d", i)
		}
		ds.byID[id] = row

		doc := make(map[string]any, len(queryFields))
		for _, field := range queryFields {
			if v, ok := row[field].(string); ok {
				doc[field] = foldTurkish(v)
			}
		}
		if err := batch.Index(id, doc); err != nil {
			return nil, fmt.Errorf("failed to index row %s: %w", id, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	return ds, nil
}

// buildQuery assembles a conjunction of per-field match queries from the
// caller parameters. No recognized parameters means match-all.
func buildQuery(params provider.Params, fuzzy bool) query.Query {
	var parts []query.Query
	for param, field := range queryFields {
		v, ok := params[param].(string)
		if !ok || v == "" {
			continue
		}
		mq := bleve.NewMatchQuery(foldTurkish(v))
		mq.SetField(field)
		if fuzzy {
			mq.SetFuzziness(1)
		}
		parts = append(parts, mq)
	}

	if len(parts) == 0 {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewConjunctionQuery(parts...)
}

// centerOnSiralama selects the window of rows closest to the target ranking
// and orders it by ranking ascending.
func centerOnSiralama(rows []map[string]any, target, limit int) []map[string]any {
	sort.SliceStable(rows, func(i, j int) bool {
		return siralamaDistance(rows[i], target) < siralamaDistance(rows[j], target)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rowSiralama(rows[i]) < rowSiralama(rows[j])
	})
	return rows
}

func siralamaDistance(row map[string]any, target int) int {
	s := rowSiralama(row)
	if s == 0 {
		return math.MaxInt
	}
	if s > target {
		return s - target
	}
	return target - s
}

func rowSiralama(row map[string]any) int {
	switch v := row["taban_siralama"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// formatPrograms renders rows into the display text returned for formatted
// searches. Coercion failures fall back to the raw identifier line.
func formatPrograms(rows []map[string]any, limit int) string {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d programs:\n", len(rows))
	for i, row := range rows {
		rec, err := provider.CoerceProgram(row)
		if err != nil {
			fmt.Fprintf(&b, "\n%d. (unparsed record %v)", i+1, row["yop_kodu"])
			continue
		}
		fmt.Fprintf(&b, "\n%d. %s - %s (%s)", i+1, rec.Universite, rec.Program, rec.Sehir)
		fmt.Fprintf(&b, "\n   YÖP: %s | Puan: %.2f (%s) | Sıralama: %d | Kontenjan: %d",
			rec.YopKodu, rec.TabanPuan, rec.PuanTuru, rec.TabanSiralama, rec.Kontenjan)
	}
	return b.String()
}

// foldTurkish normalizes index and query terms with Turkish casing rules.
func foldTurkish(s string) string {
	return provider.Fold(s)
}
