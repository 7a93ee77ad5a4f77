package domain

import (
	"context"
	"time"
)

// FetchPurpose diferencia a consulta do preço intermediário (país base)
// da consulta regional.
type FetchPurpose string

const (
	PurposeIntermediary FetchPurpose = "intermediary"
	PurposeRegion       FetchPurpose = "region"
)

// StatsEvent é o resultado de uma consulta de PPP. Indexar por Country é opcional
// nas stores (até ~250 séries).
type StatsEvent struct {
	Country string
	Purpose FetchPurpose
	OK      bool

	At time.Time
}

// StatsStore recebe um evento por consulta. O coordenador ignora o erro.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
