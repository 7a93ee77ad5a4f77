package domain

// CurrencySymbol segue o formato da base currency-format:
// grapheme é o símbolo, template indica onde o valor entra ("$1" = símbolo antes).
type CurrencySymbol struct {
	Grapheme string `json:"grapheme"`
	Template string `json:"template"`
	RTL      bool   `json:"rtl"`
}

type Currency struct {
	Code   string         `json:"code"`
	Symbol CurrencySymbol `json:"symbol"`
}

// CountryInfo são os metadados de exibição e moeda de um país.
type CountryInfo struct {
	Name     string
	Emoji    string
	Currency Currency
}

// CountryResolver resolve metadados a partir do código ISO alpha-2.
// Código desconhecido retorna *UnknownCountryError.
type CountryResolver interface {
	Resolve(countryAlpha2 string) (CountryInfo, error)
}
