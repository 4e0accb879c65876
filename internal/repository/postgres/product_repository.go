package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `sku, parent_sku, name, cost_cny, ship_cny, storage_usd, last_mile_usd, created_at, updated_at`

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY parent_sku, sku`, productColumns)

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Get(ctx context.Context, sku string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE sku = $1`, productColumns)

	var p domain.Product
	if err := r.db.GetContext(ctx, &p, query, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product %s: %w", sku, err)
	}
	return &p, nil
}

const upsertProductQuery = `
	INSERT INTO products (sku, parent_sku, name, cost_cny, ship_cny, storage_usd, last_mile_usd, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	ON CONFLICT (sku)
	DO UPDATE SET
		parent_sku = EXCLUDED.parent_sku,
		name = EXCLUDED.name,
		cost_cny = EXCLUDED.cost_cny,
		ship_cny = EXCLUDED.ship_cny,
		storage_usd = EXCLUDED.storage_usd,
		last_mile_usd = EXCLUDED.last_mile_usd,
		updated_at = NOW()
`

func (r *productRepository) Upsert(ctx context.Context, p domain.Product) error {
	_, err := r.db.ExecContext(ctx, upsertProductQuery,
		p.SKU, p.ParentSKU, p.Name, p.CostCNY, p.ShipCNY, p.StorageUSD, p.LastMileUSD)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.SKU, err)
	}
	return nil
}

func (r *productRepository) BulkUpsert(ctx context.Context, products []domain.Product) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertProductQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, p := range products {
			if _, err := stmt.ExecContext(ctx,
				p.SKU, p.ParentSKU, p.Name, p.CostCNY, p.ShipCNY, p.StorageUSD, p.LastMileUSD); err != nil {
				return fmt.Errorf("failed to upsert product %s: %w", p.SKU, err)
			}
		}
		return nil
	})
}

func (r *productRepository) Delete(ctx context.Context, sku string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE sku = $1`, sku); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", sku, err)
	}
	return nil
}
