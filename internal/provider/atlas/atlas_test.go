package atlas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirks/yokatlas-bridge/internal/provider"
)

func newSectionServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		require.Equal(t, "104110221", r.URL.Query().Get("y"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"path": r.URL.Path,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestFetchAll_MergesAllSections(t *testing.T) {
	srv, calls := newSectionServer(t, http.StatusOK)
	client := New(srv.URL, provider.TierLisans, WithHTTPClient(srv.Client()))

	details, err := client.FetchAll(context.Background(), "104110221", 2023)
	require.NoError(t, err)

	assert.Equal(t, "104110221", details["program_id"])
	assert.Equal(t, 2023, details["year"])
	for name := range lisansSections {
		assert.Contains(t, details, name)
	}
	assert.Equal(t, int32(len(lisansSections)), calls.Load())
}

func TestFetchAll_YearInPath(t *testing.T) {
	var sawPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawPath.Store(r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	client := New(srv.URL, provider.TierOnlisans, WithHTTPClient(srv.Client()))
	_, err := client.FetchAll(context.Background(), "203910034", 2022)
	require.NoError(t, err)

	path, _ := sawPath.Load().(string)
	assert.True(t, strings.HasPrefix(path, "/2022/content/onlisans-dynamic/"), path)
}

func TestFetchAll_SectionErrorFailsWhole(t *testing.T) {
	srv, _ := newSectionServer(t, http.StatusInternalServerError)
	client := New(srv.URL, provider.TierLisans, WithHTTPClient(srv.Client()))

	_, err := client.FetchAll(context.Background(), "104110221", 2023)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestFetchAll_Roundtrip_Deterministic(t *testing.T) {
	srv, _ := newSectionServer(t, http.StatusOK)
	client := New(srv.URL, provider.TierLisans, WithHTTPClient(srv.Client()))

	first, err := client.FetchAll(context.Background(), "104110221", 2023)
	require.NoError(t, err)
	second, err := client.FetchAll(context.Background(), "104110221", 2023)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFetchAll_ContextCancelled(t *testing.T) {
	srv, _ := newSectionServer(t, http.StatusOK)
	client := New(srv.URL, provider.TierLisans, WithHTTPClient(srv.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchAll(ctx, "104110221", 2023)
	assert.Error(t, err)
}
