// Package file provides file-backed stores for taxonomies and categorization
// logs, one file per domain.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
)

// TaxonomyStore persists taxonomies as <domain>_taxonomy.json files.
type TaxonomyStore struct {
	dir string
}

// NewTaxonomyStore creates a taxonomy store rooted at dir, creating the
// directory if needed.
func NewTaxonomyStore(dir string) (*TaxonomyStore, error) {
	if dir == "" {
		return nil, errors.New("taxonomy directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create taxonomy directory: %w", err)
	}

	return &TaxonomyStore{dir: dir}, nil
}

// Load reads the taxonomy for a domain. A missing file is not an error.
func (s *TaxonomyStore) Load(_ context.Context, domainKey string) (domain.Taxonomy, error) {
	data, err := os.ReadFile(s.path(domainKey))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var taxonomy domain.Taxonomy
	if err := json.Unmarshal(data, &taxonomy); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file: %w", err)
	}

	return taxonomy, nil
}

// Save writes the taxonomy for a domain. The write goes through a temp file
// and a rename so a concurrent loader never reads a half-written file.
func (s *TaxonomyStore) Save(_ context.Context, domainKey string, taxonomy domain.Taxonomy) error {
	data, err := json.MarshalIndent(taxonomy, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal taxonomy: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, domainKey+"_taxonomy_*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp taxonomy file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write taxonomy: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp taxonomy file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(domainKey)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace taxonomy file: %w", err)
	}

	return nil
}

func (s *TaxonomyStore) path(domainKey string) string {
	return filepath.Join(s.dir, domainKey+"_taxonomy.json")
}
