package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
)

type adsRepository struct {
	db *DB
}

func NewAdsRepository(db *DB) repository.AdsRepository {
	return &adsRepository{db: db}
}

func (r *adsRepository) List(ctx context.Context) ([]domain.AdRecord, error) {
	query := `SELECT id, date, parent_sku, total_spend FROM ads ORDER BY date, id`

	var records []domain.AdRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}
	return records, nil
}

const insertAdQuery = `INSERT INTO ads (date, parent_sku, total_spend) VALUES ($1, $2, $3)`

func (r *adsRepository) BulkInsert(ctx context.Context, records []domain.AdRecord) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return insertAds(ctx, tx, records)
	})
}

func (r *adsRepository) Update(ctx context.Context, rec domain.AdRecord) error {
	query := `UPDATE ads SET date = $2, parent_sku = $3, total_spend = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, rec.ID, rec.Date, rec.ParentSKU, rec.TotalSpend)
	if err != nil {
		return fmt.Errorf("failed to update ad %d: %w", rec.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("ad %d not found", rec.ID)
	}
	return nil
}

func (r *adsRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ads WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete ad %d: %w", id, err)
	}
	return nil
}

func (r *adsRepository) ReplaceAll(ctx context.Context, records []domain.AdRecord) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ads`); err != nil {
			return fmt.Errorf("failed to clear ads: %w", err)
		}
		return insertAds(ctx, tx, records)
	})
}

func insertAds(ctx context.Context, tx *sql.Tx, records []domain.AdRecord) error {
	stmt, err := tx.PrepareContext(ctx, insertAdQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Date, rec.ParentSKU, rec.TotalSpend); err != nil {
			return fmt.Errorf("failed to insert ad for %s: %w", rec.ParentSKU, err)
		}
	}
	return nil
}
