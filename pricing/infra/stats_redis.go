package infra

import (
	"context"
	"strconv"
	"strings"
	"time"

	"ppp-pricing/pricing/domain"

	"github.com/redis/go-redis/v9"
)

// Layouts das séries temporais aceitas em WithStatsBucket.
var statsBuckets = map[string]string{
	"minute": "200601021504",
	"hour":   "2006010215",
}

// RedisStatsStore grava contadores de chamadas à API de PPP em hashes:
//
//	{prefix}:total                 ok / failed (não expira)
//	{prefix}:{bucket}:{timestamp}  ok / failed
//	{prefix}:purpose               {purpose}:ok / {purpose}:failed
//	{prefix}:country:{XX}          ok / failed (com WithStatsTrackCountries)
type RedisStatsStore struct {
	rdb            redis.Cmdable
	prefix         string
	ttl            time.Duration
	bucket         string
	trackCountries bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.prefix = strings.Trim(prefix, ":") }
}

// WithStatsTTL vale para as séries temporais e por país.
func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

// WithStatsBucket aceita "minute", "hour" ou "none".
func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackCountries(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackCountries = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "ppp:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type statsIncr struct {
	key    string
	field  string
	expire bool
}

func (s *RedisStatsStore) plan(ev domain.StatsEvent) []statsIncr {
	outcome := "failed"
	if ev.OK {
		outcome = "ok"
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	out := []statsIncr{{key: s.prefix + ":total", field: outcome}}
	if layout, ok := statsBuckets[s.bucket]; ok {
		out = append(out, statsIncr{
			key:    s.prefix + ":" + s.bucket + ":" + at.UTC().Format(layout),
			field:  outcome,
			expire: true,
		})
	}
	if p := strings.TrimSpace(string(ev.Purpose)); p != "" {
		out = append(out, statsIncr{key: s.prefix + ":purpose", field: p + ":" + outcome})
	}
	if c := strings.ToUpper(strings.TrimSpace(ev.Country)); s.trackCountries && c != "" {
		out = append(out, statsIncr{key: s.prefix + ":country:" + c, field: outcome, expire: true})
	}
	return out
}

// Record implementa domain.StatsStore. Os incrementos de um evento vão numa única transação.
func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	incrs := s.plan(ev)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, in := range incrs {
			pipe.HIncrBy(ctx, in.key, in.field, 1)
			if in.expire && s.ttl > 0 {
				pipe.Expire(ctx, in.key, s.ttl)
			}
		}
		return nil
	})
	return err
}

// Totals lê o contador cumulativo.
func (s *RedisStatsStore) Totals(ctx context.Context) (Counters, error) {
	vals, err := s.rdb.HGetAll(ctx, s.prefix+":total").Result()
	if err != nil {
		return Counters{}, err
	}
	var c Counters
	if v, ok := vals["ok"]; ok {
		if c.OK, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Counters{}, err
		}
	}
	if v, ok := vals["failed"]; ok {
		if c.Failed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Counters{}, err
		}
	}
	return c, nil
}
