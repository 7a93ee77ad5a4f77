// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - TokenBucket: limiter global das chamadas à API de PPP usando golang.org/x/time/rate
//   - PPPClient: cliente HTTP da API de PPP
//   - CountryReference: base estática de países e formatos de moeda (embutida via go:embed)
//   - CatalogDir: leitura/escrita dos catálogos em disco
//   - RedisStatsStore / PrometheusStatsStore / MemoryStatsStore: estatísticas das consultas
//   - RedisPPPCache: cache das respostas de PPP com TTL
//   - CategorySlots: semáforo que limita categorias em paralelo
package infra
