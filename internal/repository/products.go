package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"maasai-craft/internal/models"
)

// Schema creates the products table read by ProductModel.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id          INTEGER PRIMARY KEY,
	name        TEXT    NOT NULL,
	price       BIGINT  NOT NULL CHECK (price >= 0),
	image_url   TEXT    NOT NULL DEFAULT '',
	category    TEXT    NOT NULL,
	description TEXT    NOT NULL DEFAULT '',
	sizes       TEXT[]  NOT NULL,
	in_stock    INTEGER NOT NULL DEFAULT 0 CHECK (in_stock >= 0),
	is_active   BOOLEAN NOT NULL DEFAULT true
)`

type ProductModel struct {
	DB *sql.DB
}

// All returns all active products ordered by id
func (m *ProductModel) All(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	stmt := `
		SELECT id, name, price, image_url, category, description, sizes, in_stock
		FROM products
		WHERE is_active = true
		ORDER BY id ASC
	`
	rows, err := m.DB.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		err = rows.Scan(&p.ID, &p.Name, &p.Price, &p.ImageURL, &p.Category, &p.Description, pq.Array(&p.Sizes), &p.InStock)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// Upsert writes products inside one transaction, replacing rows with the same id.
func (m *ProductModel) Upsert(ctx context.Context, products []models.Product) error {
	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt := `
		INSERT INTO products (id, name, price, image_url, category, description, sizes, in_stock, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			sizes = EXCLUDED.sizes,
			in_stock = EXCLUDED.in_stock,
			is_active = true
	`
	for _, p := range products {
		_, err = tx.ExecContext(ctx, stmt, p.ID, p.Name, p.Price, p.ImageURL, p.Category, p.Description, pq.Array(p.Sizes), p.InStock)
		if err != nil {
			return fmt.Errorf("upsert product %d: %w", p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
