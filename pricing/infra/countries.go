package infra

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ppp-pricing/pricing/domain"

	"github.com/rs/zerolog"
)

// Bases embutidas: countries.json segue o formato do countries-list e
// currencies.json o do currency-format.
var (
	//go:embed data/countries.json
	embeddedCountries []byte

	//go:embed data/currencies.json
	embeddedCurrencies []byte
)

type countryEntry struct {
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Currency string `json:"currency"` // "INR" ou CSV "CHE,CHF,CHW"
}

type currencyEntry struct {
	Name   string                 `json:"name"`
	Symbol *domain.CurrencySymbol `json:"symbol"`
}

// CountryReference implementa domain.CountryResolver sobre as bases estáticas.
// Somente leitura após a construção: seguro para uso concorrente.
type CountryReference struct {
	countries  map[string]countryEntry
	currencies map[string]currencyEntry
	log        zerolog.Logger
}

// NewCountryReference carrega as bases a partir de JSON.
func NewCountryReference(countriesJSON, currenciesJSON []byte, log zerolog.Logger) (*CountryReference, error) {
	countries, err := decodeCountries(countriesJSON)
	if err != nil {
		return nil, err
	}
	var currencies map[string]currencyEntry
	if err := json.Unmarshal(currenciesJSON, &currencies); err != nil {
		return nil, fmt.Errorf("failed to parse currency reference: %w", err)
	}
	return &CountryReference{
		countries:  countries,
		currencies: currencies,
		log:        log.With().Str("component", "countries").Logger(),
	}, nil
}

// LoadCountryReference usa os arquivos informados; caminho vazio usa a base embutida.
func LoadCountryReference(countriesPath, currenciesPath string, log zerolog.Logger) (*CountryReference, error) {
	countries, currencies := embeddedCountries, embeddedCurrencies
	if countriesPath != "" {
		b, err := os.ReadFile(countriesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read countries file: %w", err)
		}
		countries = b
	}
	if currenciesPath != "" {
		b, err := os.ReadFile(currenciesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read currencies file: %w", err)
		}
		currencies = b
	}
	return NewCountryReference(countries, currencies, log)
}

// aceita {"countries": {...}} (countries-list) ou o mapa direto.
func decodeCountries(b []byte) (map[string]countryEntry, error) {
	var wrapped struct {
		Countries map[string]countryEntry `json:"countries"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && len(wrapped.Countries) > 0 {
		return wrapped.Countries, nil
	}
	var bare map[string]countryEntry
	if err := json.Unmarshal(b, &bare); err != nil {
		return nil, fmt.Errorf("failed to parse country reference: %w", err)
	}
	return bare, nil
}

func (r *CountryReference) Len() int { return len(r.countries) }

// Resolve implementa domain.CountryResolver.
func (r *CountryReference) Resolve(countryAlpha2 string) (domain.CountryInfo, error) {
	code := strings.ToUpper(strings.TrimSpace(countryAlpha2))
	entry, ok := r.countries[code]
	if !ok {
		return domain.CountryInfo{}, &domain.UnknownCountryError{Country: countryAlpha2}
	}

	// Com várias moedas, a primeira é a principal. As demais são ignoradas.
	main, multi := mainCurrency(entry.Currency)
	if multi {
		r.log.Debug().Str("country", code).Str("currencies", entry.Currency).Str("main", main).Msg("multiple currencies, using first")
	}
	format, ok := r.currencies[main]
	if !ok {
		return domain.CountryInfo{}, &domain.UnknownCurrencyError{Country: code, Currency: main}
	}

	cur := domain.Currency{Code: main}
	if format.Symbol != nil {
		cur.Symbol = *format.Symbol
	}
	emoji := entry.Emoji
	if emoji == "" {
		emoji = flagEmoji(code)
	}
	return domain.CountryInfo{Name: entry.Name, Emoji: emoji, Currency: cur}, nil
}

func mainCurrency(list string) (string, bool) {
	parts := strings.Split(list, ",")
	return strings.TrimSpace(parts[0]), len(parts) > 1
}

// flagEmoji monta a bandeira a partir dos "regional indicator symbols".
func flagEmoji(code string) string {
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}
