package httpapi

import (
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
)

type RouterOptions struct {
	Logger           *log.Logger
	Tokens           middleware.TokenVerifier
	Metrics          *metrics.ServerMetrics
	CORSAllowOrigins []string
	StaticDir        string
	RequestTimeout   time.Duration
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recover(logger))
	r.Use(chimw.Logger)
	r.Use(middleware.CORS(opts.CORSAllowOrigins))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chimw.Timeout(opts.RequestTimeout))
		}

		r.Get("/health", h.Health)

		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Get("/products", h.ListProducts)
		r.Get("/products/{slug}", h.GetProduct)
		if opts.StaticDir != "" {
			r.Handle("/static/products/*", http.StripPrefix("/api/static/products/", productImages(filepath.Join(opts.StaticDir, "products"))))
		}

		r.Post("/checkout/session_guest", h.CreateGuestCheckoutSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(opts.Tokens))

			r.Get("/me", h.GetMe)
			r.Put("/me", h.UpdateMe)
			r.Delete("/me", h.DeleteMe)

			r.Get("/cart", h.GetCart)
			r.Post("/cart", h.AddCartItem)
			r.Delete("/cart", h.ClearCart)
			r.Put("/cart/{itemId}", h.UpdateCartItem)
			r.Delete("/cart/{itemId}", h.RemoveCartItem)

			r.Post("/checkout/session", h.CreateCheckoutSession)
		})
	})

	return r
}
