package infra

import (
	"context"
	"sync"
	"sync/atomic"
)

// CategorySlots é um semáforo em channel com contagem de vagas ocupadas.
type CategorySlots struct {
	sem   chan struct{}
	inUse atomic.Int32
}

// NewCategorySlots cria n vagas. n < 1 vira 1.
func NewCategorySlots(n int) *CategorySlots {
	if n < 1 {
		n = 1
	}
	return &CategorySlots{sem: make(chan struct{}, n)}
}

func (s *CategorySlots) Cap() int { return cap(s.sem) }

func (s *CategorySlots) busy() int { return int(s.inUse.Load()) }

// Acquire implementa domain.Slots.
func (s *CategorySlots) Acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.inUse.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.inUse.Add(-1)
			<-s.sem
		})
	}, nil
}
