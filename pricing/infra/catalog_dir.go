package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ppp-pricing/pricing/domain"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CatalogDir lê as categorias (*.json) de src e escreve o resultado em dest,
// mantendo o nome do arquivo. Implementa domain.CatalogSource e domain.CatalogSink.
type CatalogDir struct {
	src      string
	dest     string
	validate *validator.Validate
	log      zerolog.Logger
}

func NewCatalogDir(src, dest string, log zerolog.Logger) *CatalogDir {
	return &CatalogDir{
		src:      src,
		dest:     dest,
		validate: validator.New(),
		log:      log.With().Str("component", "catalog").Logger(),
	}
}

// Categories lista os arquivos .json do diretório de entrada, em ordem alfabética.
func (d *CatalogDir) Categories(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.src)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		out = append(out, e.Name())
	}
	if len(out) == 0 {
		return nil, domain.ErrNoCatalogs
	}
	return out, nil
}

// Load lê e valida uma categoria. A validação é só de presença (nome, códigos
// de país) e de unicidade das chaves.
func (d *CatalogDir) Load(_ context.Context, category string) (domain.Catalog, error) {
	raw, err := os.ReadFile(filepath.Join(d.src, category))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", category, err)
	}
	var catalog domain.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", category, err)
	}
	for i := range catalog {
		if err := d.validate.Struct(catalog[i]); err != nil {
			return nil, fmt.Errorf("%s: subscription #%d (%q): %w", category, i, catalog[i].Name, err)
		}
	}
	if err := catalog.CheckKeys(); err != nil {
		return nil, fmt.Errorf("%s: %w", category, err)
	}
	return catalog, nil
}

// Write grava o catálogo de forma atômica (arquivo temporário + rename).
// O diretório de saída é criado se não existir.
func (d *CatalogDir) Write(_ context.Context, category string, catalog domain.Catalog) error {
	if err := os.MkdirAll(d.dest, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(catalog); err != nil {
		return fmt.Errorf("failed to encode %s: %w", category, err)
	}

	tmp, err := os.CreateTemp(d.dest, "."+category+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", category, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", category, err)
	}
	out := filepath.Join(d.dest, category)
	if err := os.Rename(tmp.Name(), out); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", category, err)
	}
	d.log.Debug().Str("file", out).Int("subscriptions", len(catalog)).Msg("catalog written")
	return nil
}
