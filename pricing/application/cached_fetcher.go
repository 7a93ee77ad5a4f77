package application

import (
	"context"
	"time"

	"ppp-pricing/pricing/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// CachedFetcher consulta o cache antes do fetcher real.
//
// Cache hit não passa pelo Limiter: não há chamada externa.
// Consultas simultâneas ao mesmo país (várias assinaturas com a mesma região)
// viram uma única chamada externa.
type CachedFetcher struct {
	next  domain.PPPFetcher
	cache domain.PPPCache
	ttl   time.Duration
	log   zerolog.Logger
	group singleflight.Group
}

func NewCachedFetcher(next domain.PPPFetcher, cache domain.PPPCache, ttl time.Duration, log zerolog.Logger) *CachedFetcher {
	return &CachedFetcher{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "ppp-cache").Logger(),
	}
}

func (f *CachedFetcher) Fetch(ctx context.Context, countryAlpha2 string) (domain.PPPRecord, error) {
	if rec, ok, err := f.cache.Get(ctx, countryAlpha2); err != nil {
		f.log.Warn().Err(err).Str("country", countryAlpha2).Msg("cache read failed, fetching upstream")
	} else if ok {
		f.log.Debug().Str("country", countryAlpha2).Msg("cache hit")
		return rec, nil
	}

	v, err, _ := f.group.Do(countryAlpha2, func() (any, error) {
		rec, err := f.next.Fetch(ctx, countryAlpha2)
		if err != nil {
			return domain.PPPRecord{}, err
		}
		if err := f.cache.Set(ctx, countryAlpha2, rec, f.ttl); err != nil {
			f.log.Warn().Err(err).Str("country", countryAlpha2).Msg("cache write failed")
		}
		return rec, nil
	})
	if err != nil {
		return domain.PPPRecord{}, err
	}
	return v.(domain.PPPRecord), nil
}
