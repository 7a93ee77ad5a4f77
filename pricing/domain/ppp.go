package domain

import (
	"context"
	"time"
)

// CurrencyMain é a moeda principal do país consultado, como a API de PPP devolve.
type CurrencyMain struct {
	Code         string  `json:"code"`
	ExchangeRate float64 `json:"exchangeRate"`
	Symbol       string  `json:"symbol"`
}

// PPPRecord é o objeto "ppp" da resposta da API.
type PPPRecord struct {
	PPP                 float64      `json:"ppp"`
	PPPConversionFactor float64      `json:"pppConversionFactor"`
	CurrencyMain        CurrencyMain `json:"currencyMain"`
}

// Limiter controla o ritmo das chamadas externas.
//
// Acquire bloqueia até existir um token (e o consome) ou até o ctx encerrar.
// A implementação pode ser token-bucket, leaky-bucket, etc.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// PPPFetcher busca o registro de PPP de um país (código ISO alpha-2).
type PPPFetcher interface {
	Fetch(ctx context.Context, countryAlpha2 string) (PPPRecord, error)
}

// PPPCache guarda respostas de PPP por país.
//
// Get retorna ok=false em cache miss. Erros de infraestrutura devem ser tratados
// como miss pelo chamador (best-effort).
type PPPCache interface {
	Get(ctx context.Context, countryAlpha2 string) (rec PPPRecord, ok bool, err error)
	Set(ctx context.Context, countryAlpha2 string, rec PPPRecord, ttl time.Duration) error
}
