package repository

import (
	"database/sql"

	"github.com/mbianoutech/roomstay-backend/models"
)

// PaymentConfigRepository handles payment provider credential reads.
// Credentials are scoped per (service type, environment) pair.
type PaymentConfigRepository struct {
	db *sql.DB
}

// NewPaymentConfigRepository creates a new payment config repository
func NewPaymentConfigRepository(db *sql.DB) *PaymentConfigRepository {
	return &PaymentConfigRepository{db: db}
}

// GetActive retrieves the active credential set for a service type and
// environment. Returns sql.ErrNoRows when missing; callers must treat
// that as a configuration error, never a silent default.
func (r *PaymentConfigRepository) GetActive(serviceType, environment string) (*models.PaymentConfig, error) {
	query := `
		SELECT id, service_type, environment, base_url, api_user, api_key, is_active, created_at
		FROM payment_configs
		WHERE service_type = $1 AND environment = $2 AND is_active
	`
	var cfg models.PaymentConfig
	err := r.db.QueryRow(query, serviceType, environment).Scan(
		&cfg.ID, &cfg.ServiceType, &cfg.Environment, &cfg.BaseURL,
		&cfg.APIUser, &cfg.APIKey, &cfg.IsActive, &cfg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
