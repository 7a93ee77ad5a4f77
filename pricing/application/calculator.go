package application

import (
	"errors"

	"ppp-pricing/pricing/domain"

	"github.com/shopspring/decimal"
)

// ErrInvalidPPPIndex impede a divisão por um índice de PPP zerado/negativo.
var ErrInvalidPPPIndex = errors.New("ppp index must be > 0")

// Round2 arredonda para 2 casas, metade para longe de zero (1.005 -> 1.01, -2.345 -> -2.35).
func Round2(v float64) float64 {
	return round2(decimal.NewFromFloat(v))
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// IntermediaryPrice converte o preço base para o preço "ideal" nos EUA:
// round2(valor * exchangeRate / pppIndex), mensal e anual independentes.
func IntermediaryPrice(base domain.Amount, exchangeRate, pppIndex float64) (domain.IntermediaryAmount, error) {
	if pppIndex <= 0 {
		return domain.IntermediaryAmount{}, ErrInvalidPPPIndex
	}
	rate := decimal.NewFromFloat(exchangeRate)
	idx := decimal.NewFromFloat(pppIndex)
	conv := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		out := round2(decimal.NewFromFloat(*v).Mul(rate).Div(idx))
		return &out
	}
	return domain.IntermediaryAmount{
		IdealMonthly: conv(base.Monthly),
		IdealAnnual:  conv(base.Annual),
	}, nil
}

// DiscountedPrice aplica o desconto regional: round2(price * exchangeRate * conversionFactor).
// Campos ausentes continuam ausentes.
func DiscountedPrice(price domain.Amount, exchangeRate, conversionFactor float64) domain.Amount {
	mul := decimal.NewFromFloat(exchangeRate).Mul(decimal.NewFromFloat(conversionFactor))
	conv := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		out := round2(decimal.NewFromFloat(*v).Mul(mul))
		return &out
	}
	return domain.Amount{
		Monthly: conv(price.Monthly),
		Annual:  conv(price.Annual),
	}
}
