// Package atlas fetches per-program detail records from the YOKATLAS
// endpoints. A detail record is exposed by the provider as independent
// sections; the client fetches them concurrently and merges the results.
package atlas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/emirks/yokatlas-bridge/internal/provider"
)

// Section codes per tier, named by the panel they populate.
var (
	lisansSections = map[string]string{
		"genel_bilgiler":    "1000_1",
		"kontenjan":         "1000_2",
		"cinsiyet":          "1010",
		"cografi_bolgeler":  "1020ab",
		"iller":             "1020c",
		"taban_puan":        "1070",
		"yerlesen_siralama": "1080",
	}
	onlisansSections = map[string]string{
		"genel_bilgiler":   "3000_1",
		"kontenjan":        "3000_2",
		"cinsiyet":         "3010",
		"cografi_bolgeler": "3020ab",
		"iller":            "3020c",
		"taban_puan":       "3070",
	}
)

// Client fetches atlas details for one tier.
type Client struct {
	baseURL string
	tier    provider.Tier
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates an atlas client for the given tier.
func New(baseURL string, tier provider.Tier, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		tier:    tier,
		http:    http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll retrieves every section for the program concurrently and merges
// them into one detail map keyed by section name. The first section error
// cancels the remaining fetches.
func (c *Client) FetchAll(ctx context.Context, programID string, year int) (map[string]any, error) {
	sections := lisansSections
	if c.tier == provider.TierOnlisans {
		sections = onlisansSections
	}

	details := make(map[string]any, len(sections)+2)
	details["program_id"] = programID
	details["year"] = year

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for name, code := range sections {
		g.Go(func() error {
			payload, err := c.fetchSection(ctx, code, programID, year)
			if err != nil {
				return fmt.Errorf("section %s: %w", name, err)
			}
			mu.Lock()
			details[name] = payload
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("atlas details fetched",
		slog.String("tier", string(c.tier)),
		slog.String("program_id", programID),
		slog.Int("sections", len(sections)))

	return details, nil
}

// fetchSection retrieves and decodes one section endpoint.
func (c *Client) fetchSection(ctx context.Context, code, programID string, year int) (any, error) {
	u := fmt.Sprintf("%s/%d/content/%s-dynamic/%s.php?y=%s",
		c.baseURL, year, c.tier, code, url.QueryEscape(programID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return payload, nil
}
