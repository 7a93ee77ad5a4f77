package main

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// throttle imita a cota da API pública: um token bucket por IP de origem.
// Quem chama rápido demais recebe 429 com Retry-After em segundos.
type throttle struct {
	mu       sync.Mutex
	clients  map[string]*rate.Limiter
	interval time.Duration
	burst    int
	log      zerolog.Logger
}

func newThrottle(interval time.Duration, burst int, log zerolog.Logger) *throttle {
	if burst < 1 {
		burst = 1
	}
	return &throttle{
		clients:  make(map[string]*rate.Limiter),
		interval: interval,
		burst:    burst,
		log:      log,
	}
}

func (t *throttle) limiter(client string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	lim, ok := t.clients[client]
	if !ok {
		lim = rate.NewLimiter(rate.Every(t.interval), t.burst)
		t.clients[client] = lim
	}
	return lim
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func (t *throttle) wrap(next http.Handler) http.Handler {
	if t.interval <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientHost(r)
		if !t.limiter(client).Allow() {
			retry := int(math.Ceil(t.interval.Seconds()))
			t.log.Warn().Str("client", client).Str("target", r.URL.Query().Get("target")).Msg("throttled")
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
