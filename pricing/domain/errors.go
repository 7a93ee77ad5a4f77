package domain

import (
	"errors"
	"fmt"
)

// ErrNoCatalogs indica que o diretório de entrada não tem nenhum catálogo.
var ErrNoCatalogs = errors.New("no catalog data to read")

// UpstreamError: API de PPP inacessível ou status diferente de 2xx.
type UpstreamError struct {
	Country    string
	StatusCode int // 0 quando a falha é de transporte
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ppp upstream for %s returned status %d", e.Country, e.StatusCode)
	}
	return fmt.Sprintf("ppp upstream for %s: %v", e.Country, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// MalformedResponseError: resposta 2xx sem o objeto "ppp".
// Message traz o campo "message" da resposta, quando presente.
type MalformedResponseError struct {
	Country string
	Message string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("ppp upstream sent an invalid response for %s", e.Country)
	if e.Message != "" {
		msg += "; " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// UnknownCountryError: código ausente da base de países.
type UnknownCountryError struct {
	Country string
}

func (e *UnknownCountryError) Error() string {
	return fmt.Sprintf("country %q not found in country reference", e.Country)
}

// UnknownCurrencyError: o país existe, mas a moeda principal não está na base de formatos.
type UnknownCurrencyError struct {
	Country  string
	Currency string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("currency %q of country %s not found in currency reference", e.Currency, e.Country)
}

// LookupError sinaliza inconsistência de chaves (nome de assinatura ou região
// ausente/repetido). É defeito de dados, não condição de rotina.
type LookupError struct {
	Kind    string // "subscription" ou "region"
	Key     string
	Matches int
}

func (e *LookupError) Error() string {
	if e.Matches > 1 {
		return fmt.Sprintf("%s %q is not unique", e.Kind, e.Key)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}
