package repository

import (
	"database/sql"

	"github.com/mbianoutech/roomstay-backend/models"
)

// FeeConfigRepository handles fee configuration reads. Configs are
// versioned rows; at most one is active at a time (enforced by a partial
// unique index).
type FeeConfigRepository struct {
	db *sql.DB
}

// NewFeeConfigRepository creates a new fee config repository
func NewFeeConfigRepository(db *sql.DB) *FeeConfigRepository {
	return &FeeConfigRepository{db: db}
}

// GetActive retrieves the active fee config. Returns sql.ErrNoRows when
// none is configured; callers fall back to the default schedule.
func (r *FeeConfigRepository) GetActive() (*models.FeeConfig, error) {
	query := `
		SELECT id, host_fee_percent, guest_fee_percent, host_fee_min, host_fee_max,
		       guest_fee_min, guest_fee_max, is_active, created_at
		FROM fee_configs
		WHERE is_active
	`
	var cfg models.FeeConfig
	err := r.db.QueryRow(query).Scan(
		&cfg.ID, &cfg.HostFeePercent, &cfg.GuestFeePercent,
		&cfg.HostFeeMin, &cfg.HostFeeMax, &cfg.GuestFeeMin, &cfg.GuestFeeMax,
		&cfg.IsActive, &cfg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
