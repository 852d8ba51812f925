package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]Item, error)
	Get(ctx context.Context, itemID int64) (*Item, error)
	Add(ctx context.Context, userID, productID int64, qty int) (int64, error)
	SetQuantity(ctx context.Context, itemID int64, qty int) error
	Delete(ctx context.Context, itemID int64) error
	Clear(ctx context.Context, userID int64) error
	DeleteMany(ctx context.Context, userID int64, itemIDs []int64) error
}

type PostgresRepository struct {
	pool db.DBPool
}

func NewPostgresRepository(pool db.DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, product_id, qty FROM cart_items WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) Get(ctx context.Context, itemID int64) (*Item, error) {
	var it Item
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, product_id, qty FROM cart_items WHERE id = $1`, itemID,
	).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("cart item")
		}
		return nil, fmt.Errorf("select cart item: %w", err)
	}
	return &it, nil
}

// Add inserts a line or, when the user already holds the product, increments
// its quantity in the same statement. The increment is refused when the merged
// quantity would pass MaxQuantity.
func (r *PostgresRepository) Add(ctx context.Context, userID, productID int64, qty int) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, product_id, qty)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO UPDATE SET qty = cart_items.qty + EXCLUDED.qty
		WHERE cart_items.qty + EXCLUDED.qty <= $4
		RETURNING id
	`, userID, productID, qty, MaxQuantity).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, pgx.ErrNoRows):
		return 0, apperr.Validation(fmt.Sprintf("qty must be at most %d", MaxQuantity))
	case db.IsForeignKeyViolation(err):
		return 0, apperr.NotFound("user")
	default:
		return 0, fmt.Errorf("upsert cart item: %w", err)
	}
}

func (r *PostgresRepository) SetQuantity(ctx context.Context, itemID int64, qty int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE cart_items SET qty = $2 WHERE id = $1`, itemID, qty)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("cart item")
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, itemID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// DeleteMany removes the given items, restricted to userID's cart.
func (r *PostgresRepository) DeleteMany(ctx context.Context, userID int64, itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`, userID, itemIDs); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	return nil
}
