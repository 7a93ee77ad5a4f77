package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync/atomic"

	"ppp-pricing/pricing/domain"

	"github.com/rs/zerolog"
)

// fixture é a resposta devolvida para um país. Status 0 significa 200.
type fixture struct {
	Status  int               `json:"status,omitempty"`
	PPP     *domain.PPPRecord `json:"ppp,omitempty"`
	Message string            `json:"message,omitempty"`
}

func defaultFixtures() map[string]fixture {
	rec := func(ppp, factor float64, code string, rate float64, symbol string) fixture {
		return fixture{PPP: &domain.PPPRecord{
			PPP:                 ppp,
			PPPConversionFactor: factor,
			CurrencyMain:        domain.CurrencyMain{Code: code, ExchangeRate: rate, Symbol: symbol},
		}}
	}
	return map[string]fixture{
		"US": rec(1, 1, "USD", 1, "$"),
		"IN": rec(3.4, 0.3, "INR", 75, "₹"),
		"GB": rec(0.7, 0.69, "GBP", 0.8, "£"),
		"BR": rec(2.3, 0.42, "BRL", 5.4, "R$"),
		"DE": rec(0.74, 0.86, "EUR", 0.92, "€"),
	}
}

// loadFixtures lê um JSON {"XX": fixture}. Caminho vazio usa os padrões.
func loadFixtures(path string) (map[string]fixture, error) {
	if path == "" {
		return defaultFixtures(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	raw := map[string]fixture{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures %s: %w", path, err)
	}
	out := make(map[string]fixture, len(raw))
	for code, f := range raw {
		out[strings.ToUpper(code)] = f
	}
	return out, nil
}

type stubHandler struct {
	fixtures map[string]fixture
	log      zerolog.Logger
	hits     atomic.Int64
}

func newStubHandler(fixtures map[string]fixture, log zerolog.Logger) *stubHandler {
	return &stubHandler{fixtures: fixtures, log: log}
}

func (h *stubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	n := h.hits.Add(1)
	target := strings.ToUpper(r.URL.Query().Get("target"))
	h.log.Info().Str("target", target).Int64("hit", n).Msg("ppp request")

	w.Header().Set("Content-Type", "application/json")

	// a API real responde 200 sem "ppp" para países que não conhece
	f, ok := h.fixtures[target]
	if !ok {
		f = fixture{Message: "no ppp data for target " + target}
	}
	status := f.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		PPP     *domain.PPPRecord `json:"ppp,omitempty"`
		Message string            `json:"message,omitempty"`
	}{f.PPP, f.Message})
}
