// Package domain reúne o modelo do catálogo (Subscription, BasePrice, RegionPrice),
// os registros de PPP e de países e as interfaces que o resto do pipeline implementa:
// Limiter, PPPFetcher, PPPCache, CountryResolver, CatalogSource/CatalogSink e StatsStore.
//
// Nada aqui faz I/O; os erros tipados (UpstreamError, LookupError, ...) também moram aqui.
package domain
