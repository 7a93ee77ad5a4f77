package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ppp-pricing/pkg/logger"
)

// Servidor local que imita a API de PPP para validar o pipeline sem a rede.
func main() {
	log := logger.New(logger.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("LOG_PRETTY") == "true",
	})

	fixtures, err := loadFixtures(os.Getenv("PPP_FIXTURES_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("fixtures error")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	// PPP_STUB_RATE_INTERVAL=5s reproduz a cota da API pública; vazio desliga.
	interval, _ := time.ParseDuration(os.Getenv("PPP_STUB_RATE_INTERVAL"))
	burst, err := strconv.Atoi(os.Getenv("PPP_STUB_RATE_BURST"))
	if err != nil {
		burst = 1
	}

	mux := http.NewServeMux()
	mux.Handle("/", newThrottle(interval, burst, log).wrap(newStubHandler(fixtures, log)))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Int("countries", len(fixtures)).Dur("rate_interval", interval).Msg("ppp stub listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}
