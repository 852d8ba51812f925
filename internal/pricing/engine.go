// Package pricing turns cart rows into priced lines using the current catalog
// prices. It never trusts a price that did not come from the catalog.
package pricing

import (
	"context"
	"fmt"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/money"
)

type CartStore interface {
	ListByUser(ctx context.Context, userID int64) ([]cart.Item, error)
	DeleteMany(ctx context.Context, userID int64, itemIDs []int64) error
}

type ProductStore interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]catalog.Product, error)
}

type Line struct {
	CartItemID int64           `json:"id,omitempty"`
	ProductID  int64           `json:"product_id"`
	Quantity   int             `json:"qty"`
	UnitPrice  money.Amount    `json:"unit_price"`
	Product    catalog.Summary `json:"product"`
	LineTotal  money.Amount    `json:"line_total"`
}

type Quote struct {
	Lines    []Line       `json:"items"`
	Subtotal money.Amount `json:"subtotal"`
}

func (q Quote) Empty() bool { return len(q.Lines) == 0 }

// Requested is a client-supplied line for guest checkout.
type Requested struct {
	ProductID int64
	Quantity  int
}

type Engine struct {
	carts    CartStore
	products ProductStore
}

func NewEngine(carts CartStore, products ProductStore) *Engine {
	return &Engine{carts: carts, products: products}
}

// Price quotes the user's cart in stored order. Rows whose product no longer
// exists are deleted and left out of the quote; that repair is not an error.
func (e *Engine) Price(ctx context.Context, userID int64) (Quote, error) {
	items, err := e.carts.ListByUser(ctx, userID)
	if err != nil {
		return Quote{}, err
	}

	products, err := e.products.GetByIDs(ctx, productIDs(items))
	if err != nil {
		return Quote{}, err
	}

	q := Quote{Lines: make([]Line, 0, len(items)), Subtotal: money.Zero()}
	var orphans []int64
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			orphans = append(orphans, it.ID)
			continue
		}
		q.add(it.ID, p, it.Quantity)
	}

	if len(orphans) > 0 {
		if err := e.carts.DeleteMany(ctx, userID, orphans); err != nil {
			return Quote{}, fmt.Errorf("remove orphaned cart items: %w", err)
		}
	}
	return q, nil
}

// PriceRequested quotes a list not backed by a stored cart. Unknown products
// are skipped and repeated product ids are merged into one line.
func (e *Engine) PriceRequested(ctx context.Context, req []Requested) (Quote, error) {
	qty := make(map[int64]int, len(req))
	order := make([]int64, 0, len(req))
	for _, r := range req {
		if r.Quantity < 1 {
			return Quote{}, apperr.Validation("qty must be at least 1")
		}
		if _, seen := qty[r.ProductID]; !seen {
			order = append(order, r.ProductID)
		}
		qty[r.ProductID] += r.Quantity
		if qty[r.ProductID] > cart.MaxQuantity {
			return Quote{}, apperr.Validation(fmt.Sprintf("qty must be at most %d", cart.MaxQuantity))
		}
	}

	products, err := e.products.GetByIDs(ctx, order)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{Lines: make([]Line, 0, len(order)), Subtotal: money.Zero()}
	for _, id := range order {
		if p, ok := products[id]; ok {
			q.add(0, p, qty[id])
		}
	}
	return q, nil
}

func (q *Quote) add(itemID int64, p catalog.Product, qty int) {
	total := p.Price.Mul(qty)
	q.Lines = append(q.Lines, Line{
		CartItemID: itemID,
		ProductID:  p.ID,
		Quantity:   qty,
		UnitPrice:  p.Price,
		Product:    p.Summary(),
		LineTotal:  total,
	})
	q.Subtotal = q.Subtotal.Add(total)
}

func productIDs(items []cart.Item) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}
