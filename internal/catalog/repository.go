package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/money"
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetBySlug(ctx context.Context, slug string) (Product, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error)
}

type PostgresRepository struct {
	pool db.DBPool
}

func NewPostgresRepository(pool db.DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// price is read as text so it reaches money.Amount without a float detour.
const selectProduct = `SELECT id, name, slug, price::text, COALESCE(short_description, ''), COALESCE(usage, ''), COALESCE(warnings, ''), COALESCE(image, '') FROM products`

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, selectProduct+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (Product, error) {
	return r.getOne(ctx, selectProduct+` WHERE slug = $1`, slug)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (Product, error) {
	return r.getOne(ctx, selectProduct+` WHERE id = $1`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound("product")
		}
		return Product{}, err
	}
	return p, nil
}

// GetByIDs returns the products that still exist among ids. Missing ids are
// simply absent from the map.
func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error) {
	out := make(map[int64]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, selectProduct+` WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("select products by id: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// Upsert inserts or refreshes a product keyed by slug and sets p.ID.
func (r *PostgresRepository) Upsert(ctx context.Context, p *Product) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, slug, price, short_description, usage, warnings, image)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			short_description = EXCLUDED.short_description,
			usage = EXCLUDED.usage,
			warnings = EXCLUDED.warnings,
			image = EXCLUDED.image
		RETURNING id
	`, p.Name, p.Slug, p.Price.String(), p.ShortDescription, p.Usage, p.Warnings, p.Image).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.Slug, err)
	}
	return nil
}

// DeleteExcept removes every product whose slug is not in keep.
func (r *PostgresRepository) DeleteExcept(ctx context.Context, keep []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE NOT (slug = ANY($1))`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune products: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p     Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &price, &p.ShortDescription, &p.Usage, &p.Warnings, &p.Image); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, err
		}
		return Product{}, fmt.Errorf("scan product: %w", err)
	}
	amount, err := money.Parse(price)
	if err != nil {
		return Product{}, err
	}
	p.Price = amount
	return p, nil
}
