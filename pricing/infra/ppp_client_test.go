package infra

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"ppp-pricing/pricing/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	calls atomic.Int32
	err   error
}

func (l *countingLimiter) Acquire(context.Context) error {
	l.calls.Add(1)
	return l.err
}

func TestPPPClient_FetchDecodesRecord(t *testing.T) {
	var gotTarget string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.URL.Query().Get("target")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":{"target":"IN"},"ppp":{"ppp":20,"pppConversionFactor":0.3,"currencyMain":{"code":"INR","exchangeRate":75,"symbol":"₹"}}}`))
	}))
	defer srv.Close()

	lim := &countingLimiter{}
	c := NewPPPClient(srv.URL+"/", lim, zerolog.Nop())

	rec, err := c.Fetch(context.Background(), "IN")
	require.NoError(t, err)
	assert.Equal(t, "IN", gotTarget)
	assert.Equal(t, domain.PPPRecord{
		PPP:                 20,
		PPPConversionFactor: 0.3,
		CurrencyMain:        domain.CurrencyMain{Code: "INR", ExchangeRate: 75, Symbol: "₹"},
	}, rec)
	assert.Equal(t, int32(1), lim.calls.Load())
}

func TestPPPClient_MissingPPPIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Invalid target country"}`))
	}))
	defer srv.Close()

	c := NewPPPClient(srv.URL, NoopLimiter{}, zerolog.Nop())
	_, err := c.Fetch(context.Background(), "XX")

	var merr *domain.MalformedResponseError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "Invalid target country", merr.Message)
	assert.Contains(t, err.Error(), "Invalid target country")
}

func TestPPPClient_InvalidJSONIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	c := NewPPPClient(srv.URL, NoopLimiter{}, zerolog.Nop())
	_, err := c.Fetch(context.Background(), "IN")

	var merr *domain.MalformedResponseError
	require.True(t, errors.As(err, &merr))
	assert.Error(t, merr.Err)
}

func TestPPPClient_NonSuccessStatusIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewPPPClient(srv.URL, NoopLimiter{}, zerolog.Nop())
	_, err := c.Fetch(context.Background(), "IN")

	var uerr *domain.UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, http.StatusTooManyRequests, uerr.StatusCode)
	assert.Equal(t, "IN", uerr.Country)
}

func TestPPPClient_TransportFailureIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewPPPClient(url, NoopLimiter{}, zerolog.Nop())
	_, err := c.Fetch(context.Background(), "IN")

	var uerr *domain.UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, 0, uerr.StatusCode)
	assert.Error(t, uerr.Err)
}

func TestPPPClient_LimiterErrorSkipsRequest(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	lim := &countingLimiter{err: context.Canceled}
	c := NewPPPClient(srv.URL, lim, zerolog.Nop())
	_, err := c.Fetch(context.Background(), "IN")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, hits)
}
