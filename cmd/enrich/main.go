package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ppp-pricing/pkg/logger"
	"ppp-pricing/pricing"
	"ppp-pricing/pricing/application"
	"ppp-pricing/pricing/domain"
	"ppp-pricing/pricing/infra"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		l := logger.New(logger.Config{})
		l.Fatal().Err(err).Msg("config error")
	}
	log := logger.New(logger.Config{Level: cfg.logLevel, Pretty: cfg.logPretty})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("enrichment failed")
	}
}

func run(ctx context.Context, cfg config, log zerolog.Logger) error {
	countries, err := infra.LoadCountryReference(cfg.countriesFile, cfg.currenciesFile, log)
	if err != nil {
		return err
	}

	// Um único limiter para o processo inteiro: todas as categorias e regiões passam por ele.
	limiter := infra.NewTokenBucket(cfg.rateInterval, cfg.rateBurst)
	var fetcher domain.PPPFetcher = infra.NewPPPClient(cfg.pppAPIURL, limiter, log, infra.WithTimeout(cfg.httpTimeout))

	if cfg.cacheEnabled {
		rdb, err := connectRedis(ctx, cfg.cacheRedisAddr, cfg.cacheRedisPassword, cfg.cacheRedisDB)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		fetcher = application.NewCachedFetcher(fetcher, infra.NewRedisPPPCache(rdb, cfg.cachePrefix), cfg.cacheTTL, log)
	}

	memStats := infra.NewMemoryStatsStore()
	stats := infra.MultiStatsStore{memStats}
	if cfg.statsEnabled {
		rdb, err := connectRedis(ctx, cfg.statsRedisAddr, cfg.statsRedisPassword, cfg.statsRedisDB)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		stats = append(stats, infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsBucket(cfg.statsBucket),
			infra.WithStatsTrackCountries(cfg.statsTrackCountries),
		))
	}
	if cfg.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		promStats, err := infra.NewPrometheusStatsStore(reg, cfg.statsTrackCountries)
		if err != nil {
			return err
		}
		stats = append(stats, promStats)
		stop := serveMetrics(cfg.metricsAddr, reg, log)
		defer stop()
	}

	dir := infra.NewCatalogDir(cfg.srcDir, cfg.destDir, log)
	runner := &pricing.Runner{
		Source:   dir,
		Sink:     dir,
		Enricher: application.NewCoordinator(fetcher, countries, log, application.WithStats(stats)),
		Log:      log,
	}
	categorySlots := 0
	if cfg.categoryMax > 0 {
		slots := infra.NewCategorySlots(cfg.categoryMax)
		runner.Gate = application.CategoryGate{Slots: slots}
		categorySlots = slots.Cap()
	}

	log.Info().
		Str("api", cfg.pppAPIURL).
		Dur("interval", limiter.Interval()).
		Int("burst", limiter.Burst()).
		Int("category_slots", categorySlots).
		Str("src", cfg.srcDir).
		Str("dest", cfg.destDir).
		Bool("cache", cfg.cacheEnabled).
		Bool("stats", cfg.statsEnabled).
		Msg("starting regional pricing run")

	start := time.Now()
	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	regions, succeeded, failed := summary.Totals()
	total := memStats.Total()
	log.Info().
		Int("categories", len(summary.Categories)).
		Int("regions", regions).
		Int("succeeded", succeeded).
		Int("failed", failed).
		Int64("fetch_ok", total.OK).
		Int64("fetch_failed", total.Failed).
		Dur("took", time.Since(start)).
		Msg("regional pricing run finished")

	if errs := summary.Errs(); len(errs) > 0 {
		for _, e := range errs {
			log.Error().Err(e.Err).Str("category", e.Category).Msg("category not written")
		}
		return errors.New("some categories were not written")
	}
	return nil
}

func connectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// serveMetrics expõe /metrics enquanto a execução estiver ativa.
func serveMetrics(addr string, reg *prometheus.Registry, log zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server error")
		}
	}()
	log.Info().Str("addr", addr).Msg("metrics listening")
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
