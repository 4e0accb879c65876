package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nebulaops/backend/internal/domain"
	"github.com/nebulaops/backend/internal/repository"
)

type settingsRepository struct {
	db       *DB
	defaults domain.PolicySettings
}

// NewSettingsRepository stores the single policy record. Reads fall back
// to the given defaults until a row has been saved.
func NewSettingsRepository(db *DB, defaults domain.PolicySettings) repository.SettingsRepository {
	return &settingsRepository{db: db, defaults: defaults}
}

func (r *settingsRepository) Get(ctx context.Context) (domain.PolicySettings, error) {
	query := `
		SELECT exchange_rate, lead_time, safety_stock, dead_stock_threshold
		FROM policy_settings WHERE id = 1
	`

	var st domain.PolicySettings
	if err := r.db.GetContext(ctx, &st, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.defaults, nil
		}
		return domain.PolicySettings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return st, nil
}

func (r *settingsRepository) Save(ctx context.Context, st domain.PolicySettings) error {
	query := `
		INSERT INTO policy_settings (id, exchange_rate, lead_time, safety_stock, dead_stock_threshold)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			exchange_rate = EXCLUDED.exchange_rate,
			lead_time = EXCLUDED.lead_time,
			safety_stock = EXCLUDED.safety_stock,
			dead_stock_threshold = EXCLUDED.dead_stock_threshold
	`
	if _, err := r.db.ExecContext(ctx, query,
		st.ExchangeRate, st.LeadTime, st.SafetyStock, st.DeadStockThreshold); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
