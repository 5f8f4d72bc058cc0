package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"maasai-craft/internal/catalog"
	"maasai-craft/internal/config"
	"maasai-craft/internal/database"
	"maasai-craft/internal/logger"
	"maasai-craft/internal/repository"
)

func main() {
	log := logger.New(logger.Options{ServiceName: "maasai-craft-seed", Format: "console"})

	// 1. Load the .env file
	if err := godotenv.Load(); err != nil {
		log.Warn(context.Background(), "no .env file, using the environment")
	}

	// 2. Only the database settings matter here.
	var db config.DBConfig
	if err := envconfig.Process(config.EnvPrefix, &db); err != nil {
		log.Error(context.Background(), "parsing config", err)
		os.Exit(1)
	}
	if err := seed(db.DSN); err != nil {
		log.Error(context.Background(), "seeding catalog", err)
		os.Exit(1)
	}

	fmt.Println("--------------------------------------")
	fmt.Printf("Catalog seeded: %d products\n", len(catalog.Seed()))
	fmt.Println("--------------------------------------")
}

func seed(dsn string) error {
	if dsn == "" {
		return errors.New(config.EnvPrefix + "_DB_DSN is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	// 3. Make sure the table exists, then write every product.
	if _, err := db.ExecContext(ctx, repository.Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	products := catalog.Seed()
	if _, err := catalog.New(products); err != nil {
		return err
	}
	return (&repository.ProductModel{DB: db}).Upsert(ctx, products)
}
