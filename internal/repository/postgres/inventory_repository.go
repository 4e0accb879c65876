package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

const snapshotColumns = `sku, base_qty, base_date, inbound, inbound_date, daily, updated_at`

func (r *inventoryRepository) Map(ctx context.Context) (map[string]domain.InventorySnapshot, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_snapshots`, snapshotColumns)

	var snaps []domain.InventorySnapshot
	if err := r.db.SelectContext(ctx, &snaps, query); err != nil {
		return nil, fmt.Errorf("failed to list inventory snapshots: %w", err)
	}

	out := make(map[string]domain.InventorySnapshot, len(snaps))
	for _, s := range snaps {
		out[s.SKU] = s
	}
	return out, nil
}

func (r *inventoryRepository) Get(ctx context.Context, sku string) (*domain.InventorySnapshot, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_snapshots WHERE sku = $1`, snapshotColumns)

	var snap domain.InventorySnapshot
	if err := r.db.GetContext(ctx, &snap, query, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot %s: %w", sku, err)
	}
	return &snap, nil
}

const upsertSnapshotQuery = `
	INSERT INTO inventory_snapshots (sku, base_qty, base_date, inbound, inbound_date, daily)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (sku)
	DO UPDATE SET
		base_qty = EXCLUDED.base_qty,
		base_date = EXCLUDED.base_date,
		inbound = EXCLUDED.inbound,
		inbound_date = EXCLUDED.inbound_date,
		daily = EXCLUDED.daily,
		updated_at = NOW()
`

func (r *inventoryRepository) Upsert(ctx context.Context, snap domain.InventorySnapshot) error {
	_, err := r.db.ExecContext(ctx, upsertSnapshotQuery,
		snap.SKU, snap.BaseQty, snap.BaseDate, snap.Inbound, snap.InboundDate, snap.Daily)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot %s: %w", snap.SKU, err)
	}
	return nil
}

func (r *inventoryRepository) ReplaceAll(ctx context.Context, snaps []domain.InventorySnapshot) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_snapshots`); err != nil {
			return fmt.Errorf("failed to clear snapshots: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, upsertSnapshotQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, snap := range snaps {
			if _, err := stmt.ExecContext(ctx,
				snap.SKU, snap.BaseQty, snap.BaseDate, snap.Inbound, snap.InboundDate, snap.Daily); err != nil {
				return fmt.Errorf("failed to insert snapshot %s: %w", snap.SKU, err)
			}
		}
		return nil
	})
}
