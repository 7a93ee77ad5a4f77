package application

import (
	"context"
	"fmt"

	"ppp-pricing/pricing/domain"
)

// CategoryGate limita quantas categorias são enriquecidas ao mesmo tempo.
// Sem Slots, não há limite.
type CategoryGate struct {
	Slots domain.Slots
}

// Enter espera uma vaga e devolve o release.
func (g CategoryGate) Enter(ctx context.Context) (func(), error) {
	if g.Slots == nil {
		return func() {}, nil
	}
	release, err := g.Slots.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("waiting for category slot: %w", err)
	}
	return release, nil
}
