package infra

import (
	"context"

	"ppp-pricing/pricing/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusStatsStore expõe as consultas como ppp_fetch_total{purpose,outcome[,country]}.
type PrometheusStatsStore struct {
	fetches        *prometheus.CounterVec
	trackCountries bool
}

func NewPrometheusStatsStore(reg prometheus.Registerer, trackCountries bool) (*PrometheusStatsStore, error) {
	labels := []string{"purpose", "outcome"}
	if trackCountries {
		labels = append(labels, "country")
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ppp_fetch_total",
		Help: "PPP upstream lookups by purpose and outcome.",
	}, labels)
	if err := reg.Register(fetches); err != nil {
		return nil, err
	}
	return &PrometheusStatsStore{fetches: fetches, trackCountries: trackCountries}, nil
}

func (s *PrometheusStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	outcome := "failed"
	if ev.OK {
		outcome = "ok"
	}
	values := []string{string(ev.Purpose), outcome}
	if s.trackCountries {
		values = append(values, ev.Country)
	}
	s.fetches.WithLabelValues(values...).Inc()
	return nil
}
