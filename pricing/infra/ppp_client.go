package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ppp-pricing/pricing/domain"

	"github.com/rs/zerolog"
)

// DefaultPPPAPI é a API pública de paridade de poder de compra.
const DefaultPPPAPI = "https://api.purchasing-power-parity.com"

// PPPClient consulta a API de PPP sempre através do Limiter recebido.
// Não faz retry: quem chama decide.
type PPPClient struct {
	baseURL string
	client  *http.Client
	limiter domain.Limiter
	log     zerolog.Logger
}

type PPPClientOption func(*PPPClient)

func WithTimeout(d time.Duration) PPPClientOption {
	return func(p *PPPClient) { p.client = &http.Client{Timeout: d} }
}

func NewPPPClient(baseURL string, limiter domain.Limiter, log zerolog.Logger, opts ...PPPClientOption) *PPPClient {
	c := &PPPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		log:     log.With().Str("client", "ppp").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type pppResponse struct {
	PPP     *domain.PPPRecord `json:"ppp"`
	Message string            `json:"message"`
}

// Fetch implementa domain.PPPFetcher.
func (c *PPPClient) Fetch(ctx context.Context, countryAlpha2 string) (domain.PPPRecord, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return domain.PPPRecord{}, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	endpoint := c.baseURL + "/?target=" + url.QueryEscape(countryAlpha2)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.PPPRecord{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("country", countryAlpha2).Msg("fetching ppp details")
	resp, err := c.client.Do(req)
	if err != nil {
		return domain.PPPRecord{}, &domain.UpstreamError{Country: countryAlpha2, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("country", countryAlpha2).
			Str("body", string(body)).
			Msg("ppp upstream returned error")
		return domain.PPPRecord{}, &domain.UpstreamError{Country: countryAlpha2, StatusCode: resp.StatusCode}
	}

	var out pppResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.PPPRecord{}, &domain.MalformedResponseError{Country: countryAlpha2, Err: err}
	}
	if out.PPP == nil {
		return domain.PPPRecord{}, &domain.MalformedResponseError{Country: countryAlpha2, Message: out.Message}
	}
	return *out.PPP, nil
}
