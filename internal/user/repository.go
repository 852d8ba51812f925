package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}

type PostgresRepository struct {
	pool db.DBPool
}

func NewPostgresRepository(pool db.DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectUser = `SELECT id, email, password_hash, COALESCE(name, ''), created_at FROM users`

func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name) VALUES ($1, $2, $3) RETURNING id, created_at`,
		u.Email, u.PasswordHash, u.Name,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict("email already registered")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, u *User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $2, password_hash = $3, name = $4 WHERE id = $1`,
		u.ID, u.Email, u.PasswordHash, u.Name,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict("email already registered")
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// Delete removes the user and their cart in one transaction. The FK cascade
// would cover cart_items too; doing it explicitly keeps the order visible.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
