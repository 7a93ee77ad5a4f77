package infra

import (
	"context"
	"sync"

	"ppp-pricing/pricing/domain"
)

type Counters struct {
	OK     int64
	Failed int64
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e para o resumo no fim da execução.
type MemoryStatsStore struct {
	mu        sync.Mutex
	total     Counters
	byPurpose map[domain.FetchPurpose]Counters
	byCountry map[string]Counters

	trackCountries bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackCountries(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackCountries = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byPurpose: make(map[domain.FetchPurpose]Counters),
		byCountry: make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bump := func(c Counters) Counters {
		if ev.OK {
			c.OK++
		} else {
			c.Failed++
		}
		return c
	}

	s.total = bump(s.total)
	s.byPurpose[ev.Purpose] = bump(s.byPurpose[ev.Purpose])
	if s.trackCountries {
		s.byCountry[ev.Country] = bump(s.byCountry[ev.Country])
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByPurpose() map[domain.FetchPurpose]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.FetchPurpose]Counters, len(s.byPurpose))
	for k, v := range s.byPurpose {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByCountry() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byCountry))
	for k, v := range s.byCountry {
		out[k] = v
	}
	return out
}

// MultiStatsStore repassa o evento para todas as stores; retorna o primeiro erro.
type MultiStatsStore []domain.StatsStore

func (m MultiStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	var first error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
