package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
)

func main() {
	prune := flag.Bool("prune", false, "delete products that are not part of the seed set")
	migrate := flag.Bool("migrate", true, "apply pending schema migrations first")
	flag.Parse()

	logger := log.New(os.Stdout, "[seed-products] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *migrate {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("run migrations: %v", err)
		}
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	products, err := catalog.SeedProducts()
	if err != nil {
		logger.Fatalf("%v", err)
	}

	res, err := catalog.Seed(ctx, catalog.NewPostgresRepository(pool), products, *prune)
	if err != nil {
		logger.Fatalf("seed: %v", err)
	}
	logger.Printf("seeded %d products, pruned %d", res.Upserted, res.Pruned)
}
