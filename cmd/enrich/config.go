package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"ppp-pricing/pricing/infra"

	"github.com/joho/godotenv"
)

type config struct {
	pppAPIURL      string
	rateInterval   time.Duration
	rateBurst      int
	httpTimeout    time.Duration
	srcDir         string
	destDir        string
	countriesFile  string
	currenciesFile string
	categoryMax    int

	cacheEnabled       bool
	cacheRedisAddr     string
	cacheRedisPassword string
	cacheRedisDB       int
	cachePrefix        string
	cacheTTL           time.Duration

	statsEnabled        bool
	statsRedisAddr      string
	statsRedisPassword  string
	statsRedisDB        int
	statsPrefix         string
	statsTTL            time.Duration
	statsBucket         string
	statsTrackCountries bool

	metricsAddr string

	logLevel  string
	logPretty bool
}

func readConfig() (config, error) {
	// .env é opcional
	_ = godotenv.Load()

	cfg := config{}
	cfg.pppAPIURL = getenvDefault("PPP_API_URL", infra.DefaultPPPAPI)
	cfg.rateInterval = getenvDurationDefault("PPP_RATE_INTERVAL", infra.DefaultRateInterval)
	cfg.rateBurst = getenvIntDefault("PPP_RATE_BURST", infra.DefaultRateBurst)
	cfg.httpTimeout = getenvDurationDefault("PPP_HTTP_TIMEOUT", 30*time.Second)
	cfg.srcDir = getenvDefault("CATALOG_SRC_DIR", "./data_src")
	cfg.destDir = getenvDefault("CATALOG_DEST_DIR", "./data/services")
	cfg.countriesFile = os.Getenv("COUNTRIES_FILE")
	cfg.currenciesFile = os.Getenv("CURRENCIES_FILE")
	cfg.categoryMax = getenvIntDefault("CATEGORY_CONCURRENCY", 0)

	cfg.cacheEnabled = getenvBoolDefault("PPP_CACHE_ENABLED", false)
	cfg.cacheRedisAddr = getenvDefault("PPP_CACHE_REDIS_ADDR", "")
	cfg.cacheRedisPassword = os.Getenv("PPP_CACHE_REDIS_PASSWORD")
	cfg.cacheRedisDB = getenvIntDefault("PPP_CACHE_REDIS_DB", 0)
	cfg.cachePrefix = getenvDefault("PPP_CACHE_PREFIX", "ppp:cache")
	cfg.cacheTTL = getenvDurationDefault("PPP_CACHE_TTL", 24*time.Hour)

	cfg.statsEnabled = getenvBoolDefault("STATS_ENABLED", false)
	cfg.statsRedisAddr = getenvDefault("STATS_REDIS_ADDR", "")
	cfg.statsRedisPassword = os.Getenv("STATS_REDIS_PASSWORD")
	cfg.statsRedisDB = getenvIntDefault("STATS_REDIS_DB", 0)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", "ppp:stats")
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 24*time.Hour)
	cfg.statsBucket = getenvDefault("STATS_BUCKET", "minute")
	cfg.statsTrackCountries = getenvBoolDefault("STATS_TRACK_COUNTRIES", false)

	cfg.metricsAddr = os.Getenv("METRICS_ADDR")

	cfg.logLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.logPretty = getenvBoolDefault("LOG_PRETTY", false)

	if strings.TrimSpace(cfg.pppAPIURL) == "" {
		return config{}, errors.New("PPP_API_URL must not be empty")
	}
	if cfg.rateInterval <= 0 {
		return config{}, errors.New("PPP_RATE_INTERVAL must be > 0")
	}
	if cfg.rateBurst <= 0 {
		return config{}, errors.New("PPP_RATE_BURST must be > 0")
	}
	if cfg.categoryMax < 0 {
		return config{}, errors.New("CATEGORY_CONCURRENCY must be >= 0")
	}
	if cfg.cacheEnabled && strings.TrimSpace(cfg.cacheRedisAddr) == "" {
		return config{}, errors.New("PPP_CACHE_REDIS_ADDR is required when PPP_CACHE_ENABLED=true")
	}
	if cfg.statsEnabled && strings.TrimSpace(cfg.statsRedisAddr) == "" {
		return config{}, errors.New("STATS_REDIS_ADDR is required when STATS_ENABLED=true")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.statsBucket)) {
	case "minute", "hour", "none":
	default:
		return config{}, errors.New("STATS_BUCKET must be minute, hour or none")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
