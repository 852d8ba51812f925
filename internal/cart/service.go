package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

type ProductLookup interface {
	GetByID(ctx context.Context, id int64) (catalog.Product, error)
}

// Service applies the cart mutation rules on top of the repository. Priced
// listing lives in the pricing package.
type Service struct {
	repo     Repository
	products ProductLookup
}

func NewService(repo Repository, products ProductLookup) *Service {
	return &Service{repo: repo, products: products}
}

// Add puts qty units of productID into the user's cart and returns the line id.
func (s *Service) Add(ctx context.Context, userID, productID int64, qty int) (int64, error) {
	if qty < 1 {
		return 0, apperr.Validation("qty must be at least 1")
	}
	if qty > MaxQuantity {
		return 0, tooMany()
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return 0, err
	}
	return s.repo.Add(ctx, userID, productID, qty)
}

// Update sets the quantity of an owned line. A quantity below 1 removes it.
func (s *Service) Update(ctx context.Context, userID, itemID int64, qty int) error {
	if qty > MaxQuantity {
		return tooMany()
	}
	if _, err := s.owned(ctx, userID, itemID); err != nil {
		return err
	}
	if qty < 1 {
		return s.repo.Delete(ctx, itemID)
	}
	return s.repo.SetQuantity(ctx, itemID, qty)
}

func (s *Service) Remove(ctx context.Context, userID, itemID int64) error {
	if _, err := s.owned(ctx, userID, itemID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, itemID)
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.repo.Clear(ctx, userID)
}

// owned loads itemID for userID. A missing item is reported as a foreign one.
func (s *Service) owned(ctx context.Context, userID, itemID int64) (*Item, error) {
	it, err := s.repo.Get(ctx, itemID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errForeignItem()
	}
	if err != nil {
		return nil, err
	}
	if it.UserID != userID {
		return nil, errForeignItem()
	}
	return it, nil
}

func errForeignItem() error {
	return apperr.Forbidden("cart item belongs to another user")
}

func tooMany() error {
	return apperr.Validation(fmt.Sprintf("qty must be at most %d", MaxQuantity))
}
