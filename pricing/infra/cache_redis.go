package infra

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"ppp-pricing/pricing/domain"

	"github.com/redis/go-redis/v9"
)

// RedisPPPCache guarda cada PPPRecord como JSON em <prefix>:<país>, com TTL.
type RedisPPPCache struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisPPPCache(rdb *redis.Client, prefix string) *RedisPPPCache {
	prefix = strings.Trim(prefix, ":")
	if prefix == "" {
		prefix = "ppp:cache"
	}
	return &RedisPPPCache{rdb: rdb, prefix: prefix}
}

func (c *RedisPPPCache) key(country string) string {
	return c.prefix + ":" + strings.ToUpper(country)
}

func (c *RedisPPPCache) Get(ctx context.Context, countryAlpha2 string) (domain.PPPRecord, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(countryAlpha2)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PPPRecord{}, false, nil
	}
	if err != nil {
		return domain.PPPRecord{}, false, err
	}
	var rec domain.PPPRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.PPPRecord{}, false, err
	}
	return rec, true, nil
}

func (c *RedisPPPCache) Set(ctx context.Context, countryAlpha2 string, rec domain.PPPRecord, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(countryAlpha2), raw, ttl).Err()
}
