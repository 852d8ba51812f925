package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/money"
)

type CartStoreMock struct {
	ListByUserFunc func(ctx context.Context, userID int64) ([]cart.Item, error)
	DeleteManyFunc func(ctx context.Context, userID int64, itemIDs []int64) error
}

func (m *CartStoreMock) ListByUser(ctx context.Context, userID int64) ([]cart.Item, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *CartStoreMock) DeleteMany(ctx context.Context, userID int64, itemIDs []int64) error {
	if m.DeleteManyFunc != nil {
		return m.DeleteManyFunc(ctx, userID, itemIDs)
	}
	return nil
}

type catalogStub map[int64]catalog.Product

func (c catalogStub) GetByIDs(ctx context.Context, ids []int64) (map[int64]catalog.Product, error) {
	out := map[int64]catalog.Product{}
	for _, id := range ids {
		if p, ok := c[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

var products = catalogStub{
	1: {ID: 1, Name: "Menta Alpina", Slug: "menta-alpina", Price: money.MustParse("8.90")},
	2: {ID: 2, Name: "Rosa Mosqueta", Slug: "rosa-mosqueta", Price: money.MustParse("9.50")},
}

func TestEnginePrice(t *testing.T) {
	carts := &CartStoreMock{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]cart.Item, error) {
			return []cart.Item{
				{ID: 11, UserID: userID, ProductID: 1, Quantity: 2},
				{ID: 12, UserID: userID, ProductID: 2, Quantity: 1},
			}, nil
		},
		DeleteManyFunc: func(ctx context.Context, userID int64, itemIDs []int64) error {
			t.Fatalf("no orphans expected, got %v", itemIDs)
			return nil
		},
	}

	q, err := NewEngine(carts, products).Price(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, q.Lines, 2)
	assert.Equal(t, "17.80", q.Lines[0].LineTotal.String())
	assert.Equal(t, "9.50", q.Lines[1].LineTotal.String())
	assert.Equal(t, "27.30", q.Subtotal.String())
	assert.Equal(t, int64(11), q.Lines[0].CartItemID)
	assert.Equal(t, "menta-alpina", q.Lines[0].Product.Slug)
}

func TestEnginePriceEmptyCart(t *testing.T) {
	q, err := NewEngine(&CartStoreMock{}, products).Price(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, q.Empty())
	assert.NotNil(t, q.Lines)
	assert.Equal(t, "0.00", q.Subtotal.String())

	raw, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"subtotal":0.00}`, string(raw))
}

func TestEnginePriceRemovesOrphans(t *testing.T) {
	var deleted []int64
	carts := &CartStoreMock{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]cart.Item, error) {
			return []cart.Item{
				{ID: 11, UserID: userID, ProductID: 1, Quantity: 1},
				{ID: 12, UserID: userID, ProductID: 404, Quantity: 3},
				{ID: 13, UserID: userID, ProductID: 405, Quantity: 1},
			}, nil
		},
		DeleteManyFunc: func(ctx context.Context, userID int64, itemIDs []int64) error {
			assert.Equal(t, int64(7), userID)
			deleted = itemIDs
			return nil
		},
	}

	q, err := NewEngine(carts, products).Price(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, q.Lines, 1)
	assert.Equal(t, "8.90", q.Subtotal.String())
	assert.Equal(t, []int64{12, 13}, deleted)
}

func TestEnginePriceRepairFailureSurfaces(t *testing.T) {
	carts := &CartStoreMock{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]cart.Item, error) {
			return []cart.Item{{ID: 12, UserID: userID, ProductID: 404, Quantity: 1}}, nil
		},
		DeleteManyFunc: func(ctx context.Context, userID int64, itemIDs []int64) error {
			return errors.New("db down")
		},
	}

	_, err := NewEngine(carts, products).Price(context.Background(), 7)
	require.Error(t, err)
}

func TestEnginePriceRequested(t *testing.T) {
	engine := NewEngine(&CartStoreMock{}, products)

	t.Run("merges and skips unknown", func(t *testing.T) {
		q, err := engine.PriceRequested(context.Background(), []Requested{
			{ProductID: 2, Quantity: 1},
			{ProductID: 1, Quantity: 1},
			{ProductID: 99, Quantity: 4},
			{ProductID: 1, Quantity: 1},
		})
		require.NoError(t, err)
		require.Len(t, q.Lines, 2)
		assert.Equal(t, int64(2), q.Lines[0].ProductID)
		assert.Equal(t, 2, q.Lines[1].Quantity)
		assert.Equal(t, "27.30", q.Subtotal.String())
	})

	t.Run("rejects non-positive qty", func(t *testing.T) {
		_, err := engine.PriceRequested(context.Background(), []Requested{{ProductID: 1, Quantity: 0}})
		require.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("rejects merged qty above max", func(t *testing.T) {
		_, err := engine.PriceRequested(context.Background(), []Requested{
			{ProductID: 1, Quantity: 600},
			{ProductID: 1, Quantity: 400},
		})
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "qty must be at most 999", apperr.Message(err))
	})
}
