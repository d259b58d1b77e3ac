package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mjagro/content-engine/internal/types"
)

const productColumns = `id, sku, name, description, pack_type, pack_size,
	primary_color, secondary_color, compliance_flags, image_urls, video_urls,
	landing_url, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*types.Product, error) {
	var p types.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.PackType, &p.PackSize,
		&p.PrimaryColor, &p.SecondaryColor, &p.ComplianceFlags, &p.ImageURLs, &p.VideoURLs,
		&p.LandingURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}

// CreateProduct inserts a catalog product.
func (db *DB) CreateProduct(ctx context.Context, input *types.CreateProductInput) (*types.Product, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO products (sku, name, description, pack_type, pack_size,
		                       primary_color, secondary_color, compliance_flags,
		                       image_urls, video_urls, landing_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+productColumns,
		input.SKU, input.Name, input.Description, input.PackType, input.PackSize,
		input.PrimaryColor, input.SecondaryColor, input.ComplianceFlags,
		input.ImageURLs, input.VideoURLs, input.LandingURL,
	)
	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// GetProduct retrieves a product by ID. Returns nil when not found.
func (db *DB) GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	return scanProduct(db.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

// GetProductBySKU retrieves a product by SKU. Returns nil when not found.
func (db *DB) GetProductBySKU(ctx context.Context, sku string) (*types.Product, error) {
	return scanProduct(db.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
}

// ListProducts retrieves active products ordered by name.
func (db *DB) ListProducts(ctx context.Context) ([]types.Product, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []types.Product
	for rows.Next() {
		var p types.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.PackType, &p.PackSize,
			&p.PrimaryColor, &p.SecondaryColor, &p.ComplianceFlags, &p.ImageURLs, &p.VideoURLs,
			&p.LandingURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

// DeactivateProduct hides a product from listings without deleting it.
func (db *DB) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("product not found: %s", id)
	}
	return nil
}
