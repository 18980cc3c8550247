package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xiaot623/sustainet/internal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedData is the catalog content loaded at startup.
type SeedData struct {
	Tools  []domain.DomainTool `yaml:"tools"`
	News   []domain.News       `yaml:"news"`
	Agents []domain.Agent      `yaml:"agents"`
}

// DefaultSeed returns the built-in catalog.
func DefaultSeed() (*SeedData, error) {
	return parseSeed(defaultSeed)
}

// LoadSeedFile reads a catalog from a YAML file.
func LoadSeedFile(path string) (*SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return parseSeed(data)
}

func parseSeed(data []byte) (*SeedData, error) {
	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for _, t := range seed.Tools {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return &seed, nil
}

// Seed upserts tools and inserts news and agents not yet present, in one
// transaction. Agents saved at runtime are kept.
func (s *SQLiteStore) Seed(ctx context.Context, seed *SeedData) error {
	return s.WithTx(ctx, func(txStore Store) error {
		tx := txStore.(*SQLiteStore)
		for i := range seed.Tools {
			if err := tx.UpsertTool(ctx, &seed.Tools[i]); err != nil {
				return fmt.Errorf("seed tool %s: %w", seed.Tools[i].Name, err)
			}
		}
		for i := range seed.News {
			if _, err := tx.insertNews(ctx, &seed.News[i]); err != nil {
				return fmt.Errorf("seed news %q: %w", seed.News[i].Title, err)
			}
		}
		for i := range seed.Agents {
			if err := tx.insertAgent(ctx, &seed.Agents[i]); err != nil {
				return fmt.Errorf("seed agent %s: %w", seed.Agents[i].Name, err)
			}
		}
		return nil
	})
}
