package domain

import "context"

// Slots limita quantas unidades de trabalho rodam ao mesmo tempo.
//
// Acquire bloqueia até existir vaga ou o ctx encerrar (retorna o erro do ctx).
// O release pode ser chamado mais de uma vez; só a primeira chamada devolve a vaga.
type Slots interface {
	Acquire(ctx context.Context) (release func(), err error)
}
