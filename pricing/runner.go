package pricing

import (
	"context"
	"sync"

	"ppp-pricing/pricing/application"
	"ppp-pricing/pricing/domain"

	"github.com/rs/zerolog"
)

// Enricher é o que o Runner precisa do coordenador.
type Enricher interface {
	Enrich(ctx context.Context, catalog domain.Catalog) application.Report
}

// CategoryResult é o resultado de uma categoria. Err != nil quando a categoria
// não pôde ser carregada ou gravada; falhas de região ficam no Report.
type CategoryResult struct {
	Category string
	Report   application.Report
	Err      error
}

type RunSummary struct {
	Categories []CategoryResult
}

// Totals soma as regiões de todas as categorias.
func (s RunSummary) Totals() (regions, succeeded, failed int) {
	for _, c := range s.Categories {
		regions += c.Report.Regions
		succeeded += c.Report.Succeeded
		failed += len(c.Report.Failed)
	}
	return regions, succeeded, failed
}

// Errs retorna as categorias que não foram gravadas.
func (s RunSummary) Errs() []CategoryResult {
	var out []CategoryResult
	for _, c := range s.Categories {
		if c.Err != nil {
			out = append(out, c)
		}
	}
	return out
}

// Runner processa todas as categorias em paralelo (limitadas pelo Gate).
// Todas compartilham o mesmo Enricher e, portanto, o mesmo Limiter.
type Runner struct {
	Source   domain.CatalogSource
	Sink     domain.CatalogSink
	Enricher Enricher
	Gate     application.CategoryGate
	Log      zerolog.Logger
}

// Run retorna erro apenas quando não é possível listar as categorias.
func (r *Runner) Run(ctx context.Context) (RunSummary, error) {
	categories, err := r.Source.Categories(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	results := make([]CategoryResult, len(categories))
	var wg sync.WaitGroup
	for i, category := range categories {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.runCategory(ctx, category)
		}()
	}
	wg.Wait()

	return RunSummary{Categories: results}, nil
}

func (r *Runner) runCategory(ctx context.Context, category string) CategoryResult {
	res := CategoryResult{Category: category}
	log := r.Log.With().Str("category", category).Logger()

	release, err := r.Gate.Enter(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	defer release()

	catalog, err := r.Source.Load(ctx, category)
	if err != nil {
		log.Error().Err(err).Msg("catalog not loaded")
		res.Err = err
		return res
	}

	res.Report = r.Enricher.Enrich(ctx, catalog)
	log.Info().
		Int("subscriptions", res.Report.Subscriptions).
		Int("regions", res.Report.Regions).
		Int("failed", len(res.Report.Failed)).
		Msg("enrichment finished")

	if err := r.Sink.Write(ctx, category, catalog); err != nil {
		log.Error().Err(err).Msg("catalog not written")
		res.Err = err
	}
	return res
}
