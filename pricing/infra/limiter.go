package infra

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Padrões da API pública de PPP: 1 chamada a cada 5s.
const (
	DefaultRateInterval = 5 * time.Second
	DefaultRateBurst    = 1
)

// TokenBucket é o limiter único do processo para as chamadas externas (x/time/rate).
//
// Seguro para muitos goroutines esperando ao mesmo tempo; as reservas são
// atendidas na ordem de chegada.
type TokenBucket struct {
	lim      *rate.Limiter
	interval time.Duration
	burst    int
}

// NewTokenBucket cria um bucket com capacidade `burst` e reposição de um token a cada `interval`.
func NewTokenBucket(interval time.Duration, burst int) *TokenBucket {
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucket{
		lim:      rate.NewLimiter(rate.Every(interval), burst),
		interval: interval,
		burst:    burst,
	}
}

func (b *TokenBucket) Interval() time.Duration { return b.interval }
func (b *TokenBucket) Burst() int              { return b.burst }

// Acquire implementa domain.Limiter.
func (b *TokenBucket) Acquire(ctx context.Context) error {
	return b.lim.Wait(ctx)
}

// NoopLimiter nunca bloqueia. Útil para testes e para o stub local.
type NoopLimiter struct{}

func (NoopLimiter) Acquire(ctx context.Context) error { return ctx.Err() }
