package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // sem .env
	cfg, err := readConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.purchasing-power-parity.com", cfg.pppAPIURL)
	assert.Equal(t, 5*time.Second, cfg.rateInterval)
	assert.Equal(t, 1, cfg.rateBurst)
	assert.Equal(t, "./data_src", cfg.srcDir)
	assert.Equal(t, "./data/services", cfg.destDir)
	assert.Equal(t, 0, cfg.categoryMax)
	assert.False(t, cfg.cacheEnabled)
	assert.Equal(t, "minute", cfg.statsBucket)
	assert.Equal(t, "info", cfg.logLevel)
}

func TestReadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PPP_RATE_INTERVAL", "250ms")
	t.Setenv("PPP_RATE_BURST", "2")
	t.Setenv("CATEGORY_CONCURRENCY", "3")
	t.Setenv("PPP_CACHE_ENABLED", "true")
	t.Setenv("PPP_CACHE_REDIS_ADDR", "localhost:6379")
	t.Setenv("PPP_CACHE_TTL", "1h")
	t.Setenv("LOG_PRETTY", "1")

	cfg, err := readConfig()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.rateInterval)
	assert.Equal(t, 2, cfg.rateBurst)
	assert.Equal(t, 3, cfg.categoryMax)
	assert.True(t, cfg.cacheEnabled)
	assert.Equal(t, time.Hour, cfg.cacheTTL)
	assert.True(t, cfg.logPretty)
}

func TestReadConfig_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PPP_RATE_INTERVAL", "soon")
	t.Setenv("PPP_RATE_BURST", "many")

	cfg, err := readConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.rateInterval)
	assert.Equal(t, 1, cfg.rateBurst)
}

func TestReadConfig_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"zero burst":           {"PPP_RATE_BURST": "0"},
		"negative interval":    {"PPP_RATE_INTERVAL": "-1s"},
		"negative categories":  {"CATEGORY_CONCURRENCY": "-1"},
		"cache without redis":  {"PPP_CACHE_ENABLED": "true"},
		"stats without redis":  {"STATS_ENABLED": "true"},
		"unknown stats bucket": {"STATS_BUCKET": "day"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := readConfig()
			assert.Error(t, err)
		})
	}
}
