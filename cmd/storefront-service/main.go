package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/payment"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/user"
)

func main() {
	logger := log.New(os.Stdout, "[storefront-service] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if cfg.UsingDefaultSecret() {
		logger.Printf("JWT_SECRET_KEY not set, using development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("run migrations: %v", err)
		}
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	userRepo := user.NewPostgresRepository(pool)
	productRepo := catalog.NewPostgresRepository(pool)
	cartRepo := cart.NewPostgresRepository(pool)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	users := user.NewService(userRepo, auth.NewBcryptHasher(), tokens)
	carts := cart.NewService(cartRepo, productRepo)
	engine := pricing.NewEngine(cartRepo, productRepo)

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeAPIURL)
	if !gateway.Configured() {
		logger.Printf("STRIPE_SECRET_KEY not set, checkout will fail until configured")
	}

	// Left as a nil interface when events are off so the coordinator skips publishing.
	var publisher checkout.EventPublisher
	if cfg.PublishEvents {
		sqlDB, err := db.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Fatalf("open sequence db: %v", err)
		}
		defer sqlDB.Close()

		rabbitConn, err := events.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer rabbitConn.Close()

		p, err := events.NewPublisher(rabbitConn, events.NewSequences(sqlDB), events.PublisherOptions{
			CorrelationID: middleware.GetCorrelationID,
		})
		if err != nil {
			logger.Fatalf("failed to create checkout publisher: %v", err)
		}
		defer func() {
			if err := p.Close(); err != nil {
				logger.Printf("publisher close error: %v", err)
			}
		}()
		publisher = p
	}

	coordinator := checkout.NewCoordinator(checkout.Config{
		FrontendURL:   cfg.FrontendURL,
		PublicBaseURL: cfg.PublicBaseURL,
		Currency:      cfg.Currency,
	}, engine, gateway, publisher, logger)

	handler := httpapi.NewHandler(users, productRepo, carts, engine, coordinator, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterOptions{
		Logger:           logger,
		Tokens:           tokens,
		Metrics:          metrics.NewServerMetrics("storefront_service"),
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		StaticDir:        cfg.StaticDir,
		RequestTimeout:   cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront-service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
}
