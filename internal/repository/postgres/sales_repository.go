package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) List(ctx context.Context, filter repository.SalesFilter) ([]domain.SaleRecord, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.SKU != "" {
		args = append(args, filter.SKU)
		conditions = append(conditions, fmt.Sprintf("sku = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := `SELECT id, order_id, date, sku, type, amount, shipping_fee, storage_fee FROM sales`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, id"

	var records []domain.SaleRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return records, nil
}

const insertSaleQuery = `
	INSERT INTO sales (order_id, date, sku, type, amount, shipping_fee, storage_fee)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (r *salesRepository) BulkInsert(ctx context.Context, records []domain.SaleRecord) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return insertSales(ctx, tx, records)
	})
}

func (r *salesRepository) Update(ctx context.Context, rec domain.SaleRecord) error {
	query := `
		UPDATE sales
		SET order_id = $2, date = $3, sku = $4, type = $5, amount = $6, shipping_fee = $7, storage_fee = $8
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.OrderID, rec.Date, rec.SKU, rec.Type, rec.Amount, rec.ShippingFee, rec.StorageFee)
	if err != nil {
		return fmt.Errorf("failed to update sale %d: %w", rec.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sale %d not found", rec.ID)
	}
	return nil
}

func (r *salesRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete sale %d: %w", id, err)
	}
	return nil
}

// ReplaceAll swaps the whole ledger in one transaction; used by backup
// restore.
func (r *salesRepository) ReplaceAll(ctx context.Context, records []domain.SaleRecord) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sales`); err != nil {
			return fmt.Errorf("failed to clear sales: %w", err)
		}
		return insertSales(ctx, tx, records)
	})
}

func insertSales(ctx context.Context, tx *sql.Tx, records []domain.SaleRecord) error {
	stmt, err := tx.PrepareContext(ctx, insertSaleQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.OrderID, rec.Date, rec.SKU, rec.Type, rec.Amount, rec.ShippingFee, rec.StorageFee); err != nil {
			return fmt.Errorf("failed to insert sale for %s: %w", rec.SKU, err)
		}
	}
	return nil
}
