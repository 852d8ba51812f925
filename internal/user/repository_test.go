package user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
)

func TestPostgresRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, password_hash, name) VALUES ($1, $2, $3) RETURNING id, created_at`)).
		WithArgs("ana@example.com", "digest", "Ana").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	u := &User{Email: "ana@example.com", PasswordHash: "digest", Name: "Ana"}
	require.NoError(t, NewPostgresRepository(mock).Create(context.Background(), u))
	require.Equal(t, int64(7), u.ID)
	require.Equal(t, now, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateDuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("ana@example.com", "digest", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = NewPostgresRepository(mock).Create(context.Background(), &User{Email: "ana@example.com", PasswordHash: "digest"})
	require.ErrorIs(t, err, apperr.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, COALESCE(name, ''), created_at FROM users WHERE email = $1`)).
		WithArgs("ana@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "name", "created_at"}).
			AddRow(int64(7), "ana@example.com", "digest", "Ana", now))

	u, err := NewPostgresRepository(mock).GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)
	require.Equal(t, "Ana", u.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByIDMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPostgresRepository(mock).GetByID(context.Background(), 99)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Update(t *testing.T) {
	t.Run("updates row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET email = $2, password_hash = $3, name = $4 WHERE id = $1`)).
			WithArgs(int64(7), "new@example.com", "digest", "Ana").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = NewPostgresRepository(mock).Update(context.Background(), &User{ID: 7, Email: "new@example.com", PasswordHash: "digest", Name: "Ana"})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email taken", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE users`)).
			WithArgs(int64(7), "taken@example.com", "digest", "").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err = NewPostgresRepository(mock).Update(context.Background(), &User{ID: 7, Email: "taken@example.com", PasswordHash: "digest"})
		require.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("missing user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE users`)).
			WithArgs(int64(8), "x@example.com", "digest", "").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err = NewPostgresRepository(mock).Update(context.Background(), &User{ID: 8, Email: "x@example.com", PasswordHash: "digest"})
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestPostgresRepository_DeleteCascadesCart(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE user_id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, NewPostgresRepository(mock).Delete(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_DeleteRollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE user_id = $1`)).
		WithArgs(int64(7)).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	require.Error(t, NewPostgresRepository(mock).Delete(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}
