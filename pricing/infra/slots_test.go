package infra

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCategorySlots_BlocksWhenFull(t *testing.T) {
	s := NewCategorySlots(1)

	release, err := s.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected first Acquire to succeed, got %v", err)
	}
	if s.busy() != 1 {
		t.Fatalf("expected 1 slot in use, got %d", s.busy())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()
	if _, err := s.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded while the slot is held, got %v", err)
	}

	release()
	release2, err := s.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected Acquire to succeed after release, got %v", err)
	}
	release2()
}

func TestCategorySlots_ReleaseIsIdempotent(t *testing.T) {
	s := NewCategorySlots(2)

	a, _ := s.Acquire(context.Background())
	b, _ := s.Acquire(context.Background())
	a()
	a()
	if s.busy() != 1 {
		t.Fatalf("double release freed an extra slot: in use %d", s.busy())
	}
	b()
	if s.busy() != 0 {
		t.Fatalf("expected no slot in use, got %d", s.busy())
	}
}

func TestCategorySlots_CanceledContext(t *testing.T) {
	s := NewCategorySlots(0)
	if s.Cap() != 1 {
		t.Fatalf("expected capacity clamped to 1, got %d", s.Cap())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected Canceled, got %v", err)
	}
	if s.busy() != 0 {
		t.Fatalf("canceled Acquire must not take a slot")
	}
}
