package domain

import "context"

// CatalogSource fornece os catálogos de entrada (um por categoria).
type CatalogSource interface {
	Categories(ctx context.Context) ([]string, error)
	Load(ctx context.Context, category string) (Catalog, error)
}

// CatalogSink persiste o catálogo enriquecido de uma categoria.
type CatalogSink interface {
	Write(ctx context.Context, category string, catalog Catalog) error
}
