// Package pricing faz o wiring do cálculo de preços regionais (PPP) por categoria.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (catálogo, PPP, países, erros)
//   - application: casos de uso (fórmulas de preço, coordenador fan-out/join, cache)
//   - infra: implementações concretas (token bucket, cliente HTTP, base de países, disco, redis)
//   - pricing (este pacote): Runner, que percorre as categorias e entrega cada catálogo pronto ao sink
//
// Fluxo de uma execução:
//
//  1. Lista as categorias (arquivos .json) da fonte
//  2. Para cada categoria, carrega e valida o catálogo
//  3. O Coordinator anota base, preço intermediário e regiões (uma goroutine por região)
//  4. Quando todas as regiões terminaram (sucesso ou falha), grava o catálogo
//
// Variáveis de ambiente do binário enrich (cmd/enrich) controlam o comportamento,
// como PPP_API_URL, PPP_RATE_INTERVAL, CATALOG_SRC_DIR e CATALOG_DEST_DIR.
package pricing
