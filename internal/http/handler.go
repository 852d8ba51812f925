package httpapi

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/user"
)

type UserService interface {
	Register(ctx context.Context, email, password, name string) (*user.User, error)
	Login(ctx context.Context, email, password string) (user.LoginResult, error)
	Profile(ctx context.Context, userID int64) (*user.User, error)
	UpdateProfile(ctx context.Context, userID int64, changes user.ProfileChanges) (*user.User, error)
	DeleteAccount(ctx context.Context, userID int64) error
}

type ProductReader interface {
	List(ctx context.Context) ([]catalog.Product, error)
	GetBySlug(ctx context.Context, slug string) (catalog.Product, error)
}

type CartService interface {
	Add(ctx context.Context, userID, productID int64, qty int) (int64, error)
	Update(ctx context.Context, userID, itemID int64, qty int) error
	Remove(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
}

type CartPricer interface {
	Price(ctx context.Context, userID int64) (pricing.Quote, error)
}

type CheckoutStarter interface {
	StartCheckout(ctx context.Context, userID int64, o checkout.Overrides) (checkout.Session, error)
	StartGuestCheckout(ctx context.Context, items []pricing.Requested, o checkout.Overrides) (checkout.Session, error)
}

type Handler struct {
	users    UserService
	products ProductReader
	carts    CartService
	pricer   CartPricer
	checkout CheckoutStarter
	logger   *log.Logger
}

func NewHandler(users UserService, products ProductReader, carts CartService, pricer CartPricer, co CheckoutStarter, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		users:    users,
		products: products,
		carts:    carts,
		pricer:   pricer,
		checkout: co,
		logger:   logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, h.logger, err)
}

// currentUser is only called behind RequireUser.
func currentUser(r *http.Request) int64 {
	id, _ := middleware.UserID(r.Context())
	return id
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return id, nil
}
