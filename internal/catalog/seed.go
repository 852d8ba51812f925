package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed_products.json
var seedJSON []byte

// SeedProducts returns the built-in catalog.
func SeedProducts() ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(seedJSON, &products); err != nil {
		return nil, fmt.Errorf("decode seed products: %w", err)
	}
	return products, nil
}

type SeedStore interface {
	Upsert(ctx context.Context, p *Product) error
	DeleteExcept(ctx context.Context, keep []string) (int64, error)
}

type SeedResult struct {
	Upserted int
	Pruned   int64
}

// Seed upserts products by slug. With prune set, products missing from the
// list are deleted; cart lines pointing at them get cleaned up on next read.
func Seed(ctx context.Context, store SeedStore, products []Product, prune bool) (SeedResult, error) {
	var res SeedResult
	keep := make([]string, 0, len(products))
	for i := range products {
		if err := store.Upsert(ctx, &products[i]); err != nil {
			return res, err
		}
		keep = append(keep, products[i].Slug)
		res.Upserted++
	}

	if prune {
		n, err := store.DeleteExcept(ctx, keep)
		if err != nil {
			return res, err
		}
		res.Pruned = n
	}
	return res, nil
}
