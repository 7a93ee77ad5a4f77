package domain

// USCountry é o país de referência: preços base fora dele passam por um preço
// intermediário em dólar antes do desconto regional.
const USCountry = "US"

// Amount é um par opcional de valores mensal/anual.
// Campo ausente significa "não se aplica" (nunca zero).
type Amount struct {
	Monthly *float64 `json:"monthly,omitempty"`
	Annual  *float64 `json:"annual,omitempty"`
}

// Empty indica que nenhum dos valores está presente.
func (a Amount) Empty() bool { return a.Monthly == nil && a.Annual == nil }

// IntermediaryAmount é o preço "ideal" nos EUA calculado a partir de uma base não-US.
type IntermediaryAmount struct {
	IdealMonthly *float64 `json:"idealMonthly,omitempty"`
	IdealAnnual  *float64 `json:"idealAnnual,omitempty"`
}

// AsAmount expõe o preço intermediário no mesmo formato do preço base,
// para que o desconto regional trate as duas fontes da mesma forma.
func (a IntermediaryAmount) AsAmount() Amount {
	return Amount{Monthly: a.IdealMonthly, Annual: a.IdealAnnual}
}

type IntermediaryPrice struct {
	Amount IntermediaryAmount `json:"amount"`
}

type BasePrice struct {
	CountryAlpha2 string `json:"countryAlpha2" validate:"required,len=2"`
	Amount        Amount `json:"amount"`

	// Preenchidos pelo pipeline.
	CountryName  string    `json:"countryName,omitempty"`
	CountryEmoji string    `json:"countryEmoji,omitempty"`
	Currency     *Currency `json:"currency,omitempty"`
}

type RegionPrice struct {
	CountryAlpha2 string `json:"countryAlpha2" validate:"required,len=2"`

	// Preenchidos pelo pipeline. Região que falhou fica sem nenhum deles.
	DiscountedAmount *Amount   `json:"discountedAmount,omitempty"`
	Currency         *Currency `json:"currency,omitempty"`
	CountryName      string    `json:"countryName,omitempty"`
	CountryEmoji     string    `json:"countryEmoji,omitempty"`
}

// Annotated indica se a região já recebeu o preço com desconto.
func (r RegionPrice) Annotated() bool { return r.DiscountedAmount != nil }

type Subscription struct {
	Name              string             `json:"name" validate:"required"`
	BasePrice         BasePrice          `json:"basePrice"`
	RegionPrices      []RegionPrice      `json:"regionPrices" validate:"dive"`
	IntermediaryPrice *IntermediaryPrice `json:"intermediaryPrice,omitempty"`
}

// NeedsIntermediary indica se o preço base está fora dos EUA.
func (s Subscription) NeedsIntermediary() bool {
	return s.BasePrice.CountryAlpha2 != USCountry
}

// AuthoritativeAmount retorna o preço usado no desconto regional:
// o intermediário, quando já calculado, senão o preço base.
func (s Subscription) AuthoritativeAmount() Amount {
	if s.IntermediaryPrice != nil {
		return s.IntermediaryPrice.Amount.AsAmount()
	}
	return s.BasePrice.Amount
}

// RegionIndex localiza a região pelo código do país.
// Código ausente ou repetido é um LookupError.
func (s Subscription) RegionIndex(countryAlpha2 string) (int, error) {
	idx := -1
	for i, r := range s.RegionPrices {
		if r.CountryAlpha2 != countryAlpha2 {
			continue
		}
		if idx >= 0 {
			return -1, &LookupError{Kind: "region", Key: s.Name + "/" + countryAlpha2, Matches: 2}
		}
		idx = i
	}
	if idx < 0 {
		return -1, &LookupError{Kind: "region", Key: s.Name + "/" + countryAlpha2}
	}
	return idx, nil
}

// Catalog é o conteúdo de um arquivo de categoria.
type Catalog []Subscription

// SubscriptionIndex localiza a assinatura pelo nome, que deve ser único.
func (c Catalog) SubscriptionIndex(name string) (int, error) {
	idx := -1
	for i, s := range c {
		if s.Name != name {
			continue
		}
		if idx >= 0 {
			return -1, &LookupError{Kind: "subscription", Key: name, Matches: 2}
		}
		idx = i
	}
	if idx < 0 {
		return -1, &LookupError{Kind: "subscription", Key: name}
	}
	return idx, nil
}

// CheckKeys garante que cada nome de assinatura e cada região dentro dela
// resolvem exatamente um registro.
func (c Catalog) CheckKeys() error {
	for _, s := range c {
		if _, err := c.SubscriptionIndex(s.Name); err != nil {
			return err
		}
		for _, r := range s.RegionPrices {
			if _, err := s.RegionIndex(r.CountryAlpha2); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegionCount é o total de regiões em todas as assinaturas.
func (c Catalog) RegionCount() int {
	n := 0
	for _, s := range c {
		n += len(s.RegionPrices)
	}
	return n
}
