// Package application contém os casos de uso do cálculo de preços regionais.
//
// Ele depende apenas do pacote domain e não conhece net/http nem redis.
// Ex.: Coordinator.Enrich(ctx, catalog) anota todas as regiões e retorna um Report.
package application
