package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ppp-pricing/pricing/domain"

	"github.com/rs/zerolog"
)

// RegionFailure registra uma região que ficou sem anotação.
type RegionFailure struct {
	Subscription string
	Country      string
	Err          error

	subIdx, regionIdx int
}

// Report resume uma execução do Coordinator.
type Report struct {
	Subscriptions int
	Regions       int
	Succeeded     int
	Failed        []RegionFailure
}

// Run é uma execução em andamento. Done fecha exatamente uma vez, quando todas
// as tarefas de região terminaram (sucesso ou falha).
type Run struct {
	done   chan struct{}
	report Report
}

func (r *Run) Done() <-chan struct{} { return r.done }

// Report bloqueia até o fim da execução.
func (r *Run) Report() Report {
	<-r.done
	return r.report
}

// Coordinator conduz cada assinatura e cada região até o fim, uma única vez.
//
// Cada região roda em sua própria goroutine e escreve somente no seu
// RegionPrice (por índice). O ritmo real das chamadas externas é dado pelo
// Limiter do fetcher, compartilhado por todas as goroutines.
type Coordinator struct {
	fetcher   domain.PPPFetcher
	countries domain.CountryResolver
	stats     domain.StatsStore
	log       zerolog.Logger
	now       func() time.Time
}

type CoordinatorOption func(*Coordinator)

func WithStats(s domain.StatsStore) CoordinatorOption {
	return func(c *Coordinator) { c.stats = s }
}

func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

func NewCoordinator(fetcher domain.PPPFetcher, countries domain.CountryResolver, log zerolog.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		fetcher:   fetcher,
		countries: countries,
		log:       log.With().Str("component", "coordinator").Logger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enrich anota o catálogo in-place e retorna quando todas as regiões terminaram.
func (c *Coordinator) Enrich(ctx context.Context, catalog domain.Catalog) Report {
	return c.Start(ctx, catalog).Report()
}

// Start dispara uma goroutine por região e retorna imediatamente.
// O catálogo não deve ser lido nem alterado pelo chamador até Done fechar.
func (c *Coordinator) Start(ctx context.Context, catalog domain.Catalog) *Run {
	run := &Run{done: make(chan struct{})}
	report := Report{
		Subscriptions: len(catalog),
		Regions:       catalog.RegionCount(),
	}
	c.log.Debug().
		Int("regions", report.Regions).
		Int("subscriptions", report.Subscriptions).
		Msg("starting enrichment")

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []RegionFailure
	)

	for i := range catalog {
		sub := &catalog[i]
		c.setBaseDetails(sub)

		// Preço intermediário: calculado uma vez por assinatura, na primeira região
		// que precisar dele; as demais esperam o mesmo resultado.
		// só existe depois de uma consulta bem-sucedida desta execução
		sub.IntermediaryPrice = nil
		var intermediary func() (domain.IntermediaryPrice, error)
		if sub.NeedsIntermediary() {
			intermediary = sync.OnceValues(func() (domain.IntermediaryPrice, error) {
				return c.setIntermediaryPrice(ctx, sub)
			})
		}

		for j := range sub.RegionPrices {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := c.enrichRegion(ctx, sub, j, intermediary); err != nil {
					c.log.Error().
						Err(err).
						Str("subscription", sub.Name).
						Str("country", sub.RegionPrices[j].CountryAlpha2).
						Msg("region left without discount")
					mu.Lock()
					failed = append(failed, RegionFailure{
						Subscription: sub.Name,
						Country:      sub.RegionPrices[j].CountryAlpha2,
						Err:          err,
						subIdx:       i,
						regionIdx:    j,
					})
					mu.Unlock()
				}
			}()
		}
	}

	go func() {
		wg.Wait()
		sort.Slice(failed, func(a, b int) bool {
			if failed[a].subIdx != failed[b].subIdx {
				return failed[a].subIdx < failed[b].subIdx
			}
			return failed[a].regionIdx < failed[b].regionIdx
		})
		report.Failed = failed
		report.Succeeded = report.Regions - len(failed)
		run.report = report
		c.log.Debug().
			Int("succeeded", report.Succeeded).
			Int("failed", len(failed)).
			Msg("enrichment finished")
		close(run.done)
	}()

	return run
}

// setBaseDetails falha "soft": loga e deixa os campos vazios.
func (c *Coordinator) setBaseDetails(sub *domain.Subscription) {
	info, err := c.countries.Resolve(sub.BasePrice.CountryAlpha2)
	if err != nil {
		c.log.Error().
			Err(err).
			Str("subscription", sub.Name).
			Str("country", sub.BasePrice.CountryAlpha2).
			Msg("base country details not set")
		return
	}
	cur := info.Currency
	sub.BasePrice.CountryName = info.Name
	sub.BasePrice.CountryEmoji = info.Emoji
	sub.BasePrice.Currency = &cur
}

func (c *Coordinator) setIntermediaryPrice(ctx context.Context, sub *domain.Subscription) (domain.IntermediaryPrice, error) {
	rec, err := c.fetch(ctx, sub.BasePrice.CountryAlpha2, domain.PurposeIntermediary)
	if err != nil {
		return domain.IntermediaryPrice{}, err
	}
	amount, err := IntermediaryPrice(sub.BasePrice.Amount, rec.CurrencyMain.ExchangeRate, rec.PPP)
	if err != nil {
		return domain.IntermediaryPrice{}, fmt.Errorf("country %s: %w", sub.BasePrice.CountryAlpha2, err)
	}
	ip := domain.IntermediaryPrice{Amount: amount}
	sub.IntermediaryPrice = &ip
	c.log.Debug().Str("subscription", sub.Name).Msg("intermediary price set")
	return ip, nil
}

func (c *Coordinator) enrichRegion(
	ctx context.Context,
	sub *domain.Subscription,
	j int,
	intermediary func() (domain.IntermediaryPrice, error),
) error {
	region := &sub.RegionPrices[j]

	// resolve antes de gastar um token do limiter com um código inválido
	info, err := c.countries.Resolve(region.CountryAlpha2)
	if err != nil {
		return err
	}

	if intermediary != nil {
		if _, err := intermediary(); err != nil {
			return fmt.Errorf("intermediary price: %w", err)
		}
	}
	// depois do once o intermediário já está gravado na assinatura
	price := sub.AuthoritativeAmount()

	rec, err := c.fetch(ctx, region.CountryAlpha2, domain.PurposeRegion)
	if err != nil {
		return err
	}

	discounted := DiscountedPrice(price, rec.CurrencyMain.ExchangeRate, rec.PPPConversionFactor)
	cur := info.Currency
	region.DiscountedAmount = &discounted
	region.Currency = &cur
	region.CountryName = info.Name
	region.CountryEmoji = info.Emoji
	return nil
}

func (c *Coordinator) fetch(ctx context.Context, country string, purpose domain.FetchPurpose) (domain.PPPRecord, error) {
	rec, err := c.fetcher.Fetch(ctx, country)
	if c.stats != nil {
		_ = c.stats.Record(ctx, domain.StatsEvent{
			Country: country,
			Purpose: purpose,
			OK:      err == nil,
			At:      c.now(),
		})
	}
	return rec, err
}
