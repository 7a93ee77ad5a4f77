package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"ppp-pricing/pricing/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `[{"name":"Pro","basePrice":{"countryAlpha2":"US","amount":{"monthly":10}},"regionPrices":[{"countryAlpha2":"IN"},{"countryAlpha2":"LU"}]}]`

type pppServer struct {
	mu    sync.Mutex
	calls int
}

func newPPPServer(t *testing.T) (*pppServer, *httptest.Server) {
	t.Helper()
	records := map[string]domain.PPPRecord{
		"IN": {PPP: 20, PPPConversionFactor: 0.3, CurrencyMain: domain.CurrencyMain{Code: "INR", ExchangeRate: 75}},
		"LU": {PPP: 0.9, PPPConversionFactor: 0.8, CurrencyMain: domain.CurrencyMain{Code: "EUR", ExchangeRate: 0.9}},
	}
	ps := &pppServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.mu.Lock()
		ps.calls++
		ps.mu.Unlock()
		rec, ok := records[r.URL.Query().Get("target")]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "unknown"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ppp": rec})
	}))
	t.Cleanup(srv.Close)
	return ps, srv
}

func (p *pppServer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func setupRun(t *testing.T, apiURL string) (src, dest string) {
	t.Helper()
	t.Chdir(t.TempDir())
	src, dest = t.TempDir(), filepath.Join(t.TempDir(), "services")
	require.NoError(t, os.WriteFile(filepath.Join(src, "software.json"), []byte(catalogJSON), 0o644))
	t.Setenv("PPP_API_URL", apiURL)
	t.Setenv("PPP_RATE_INTERVAL", "1ms")
	t.Setenv("CATALOG_SRC_DIR", src)
	t.Setenv("CATALOG_DEST_DIR", dest)
	return src, dest
}

func readCatalog(t *testing.T, path string) domain.Catalog {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var c domain.Catalog
	require.NoError(t, json.Unmarshal(raw, &c))
	return c
}

func TestRun_WritesEnrichedCatalog(t *testing.T) {
	_, srv := newPPPServer(t)
	_, dest := setupRun(t, srv.URL)
	t.Setenv("CATEGORY_CONCURRENCY", "1")
	t.Setenv("METRICS_ADDR", "127.0.0.1:0")

	cfg, err := readConfig()
	require.NoError(t, err)
	require.NoError(t, run(context.Background(), cfg, zerolog.Nop()))

	out := readCatalog(t, filepath.Join(dest, "software.json"))
	require.Len(t, out, 1)
	assert.Equal(t, 225.0, *out[0].RegionPrices[0].DiscountedAmount.Monthly)
	assert.Equal(t, "Luxembourg", out[0].RegionPrices[1].CountryName)
	assert.Equal(t, 7.2, *out[0].RegionPrices[1].DiscountedAmount.Monthly)
}

func TestRun_WithRedisCacheAndStats(t *testing.T) {
	mr := miniredis.RunT(t)
	ps, srv := newPPPServer(t)
	setupRun(t, srv.URL)
	t.Setenv("PPP_CACHE_ENABLED", "true")
	t.Setenv("PPP_CACHE_REDIS_ADDR", mr.Addr())
	t.Setenv("STATS_ENABLED", "true")
	t.Setenv("STATS_REDIS_ADDR", mr.Addr())

	cfg, err := readConfig()
	require.NoError(t, err)
	require.NoError(t, run(context.Background(), cfg, zerolog.Nop()))
	require.NoError(t, run(context.Background(), cfg, zerolog.Nop()))

	assert.Equal(t, 2, ps.count(), "second run is served from the cache")
	assert.Equal(t, "4", mr.HGet("ppp:stats:total", "ok"))
	assert.True(t, mr.Exists("ppp:cache:IN"))
}

func TestRun_UnreachableRedisFails(t *testing.T) {
	_, srv := newPPPServer(t)
	setupRun(t, srv.URL)
	t.Setenv("PPP_CACHE_ENABLED", "true")
	t.Setenv("PPP_CACHE_REDIS_ADDR", "127.0.0.1:1")

	cfg, err := readConfig()
	require.NoError(t, err)
	assert.Error(t, run(context.Background(), cfg, zerolog.Nop()))
}

func TestRun_MissingCountriesFileFails(t *testing.T) {
	_, srv := newPPPServer(t)
	setupRun(t, srv.URL)
	t.Setenv("COUNTRIES_FILE", filepath.Join(t.TempDir(), "missing.json"))

	cfg, err := readConfig()
	require.NoError(t, err)
	assert.Error(t, run(context.Background(), cfg, zerolog.Nop()))
}

func TestRun_BrokenCategoryIsReported(t *testing.T) {
	_, srv := newPPPServer(t)
	src, _ := setupRun(t, srv.URL)
	require.NoError(t, os.WriteFile(filepath.Join(src, "broken.json"), []byte(`{`), 0o644))

	cfg, err := readConfig()
	require.NoError(t, err)
	assert.EqualError(t, run(context.Background(), cfg, zerolog.Nop()), "some categories were not written")
}
