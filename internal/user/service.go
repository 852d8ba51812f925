package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
)

// Hasher turns plaintext passwords into digests and checks them.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(digest, plaintext string) bool
}

type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

var errInvalidCredentials = apperr.Unauthorized("invalid credentials")

type Service struct {
	repo   Repository
	hasher Hasher
	tokens TokenIssuer
}

func NewService(repo Repository, hasher Hasher, tokens TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, email, password, name string) (*User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		Email:        NormalizeEmail(email),
		PasswordHash: digest,
		Name:         strings.TrimSpace(name),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login answers the same error for an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return LoginResult{}, errInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return LoginResult{}, errInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{AccessToken: token, Name: u.Name, Email: u.Email}, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, changes ProfileChanges) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if changes.Name != nil {
		u.Name = strings.TrimSpace(*changes.Name)
	}
	if changes.Email != nil {
		u.Email = NormalizeEmail(*changes.Email)
	}
	if changes.Password != nil {
		digest, err := s.hasher.Hash(*changes.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = digest
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteAccount removes the user; their cart goes with them.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	return s.repo.Delete(ctx, userID)
}
