package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSeedStore struct {
	upserted  []string
	kept      []string
	pruned    int64
	upsertErr error
}

func (f *fakeSeedStore) Upsert(ctx context.Context, p *Product) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, p.Slug)
	p.ID = int64(len(f.upserted))
	return nil
}

func (f *fakeSeedStore) DeleteExcept(ctx context.Context, keep []string) (int64, error) {
	f.kept = keep
	return f.pruned, nil
}

func TestSeedProductsDecode(t *testing.T) {
	products, err := SeedProducts()
	require.NoError(t, err)
	require.Len(t, products, 8)

	for _, p := range products {
		assert.NotEmpty(t, p.Slug)
		assert.NotEmpty(t, p.Name)
		assert.Regexp(t, `^/api/static/products/`, p.Image)
		assert.False(t, p.Price.IsNegative())
	}
	assert.Equal(t, "9.50", products[2].Price.String())
}

func TestSeed(t *testing.T) {
	products := []Product{{Slug: "a"}, {Slug: "b"}}

	t.Run("without prune", func(t *testing.T) {
		store := &fakeSeedStore{}
		res, err := Seed(context.Background(), store, products, false)
		require.NoError(t, err)
		assert.Equal(t, SeedResult{Upserted: 2}, res)
		assert.Nil(t, store.kept)
	})

	t.Run("with prune", func(t *testing.T) {
		store := &fakeSeedStore{pruned: 3}
		res, err := Seed(context.Background(), store, products, true)
		require.NoError(t, err)
		assert.Equal(t, SeedResult{Upserted: 2, Pruned: 3}, res)
		assert.Equal(t, []string{"a", "b"}, store.kept)
	})

	t.Run("upsert failure stops", func(t *testing.T) {
		store := &fakeSeedStore{upsertErr: errors.New("boom")}
		_, err := Seed(context.Background(), store, products, true)
		require.Error(t, err)
		assert.Nil(t, store.kept)
	})
}
