package repository

import (
	"database/sql"

	"github.com/mbianoutech/roomstay-backend/models"
)

// PropertyRepository handles property data operations. The booking core
// only reads properties; listing management is a separate surface.
type PropertyRepository struct {
	db *sql.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// GetByID retrieves a property by its ID
func (r *PropertyRepository) GetByID(propertyID int64) (*models.Property, error) {
	query := `
		SELECT id, host_id, title, price_per_night, currency, max_guests, is_available, created_at, updated_at
		FROM properties
		WHERE id = $1
	`
	var property models.Property
	err := r.db.QueryRow(query, propertyID).Scan(
		&property.ID, &property.HostID, &property.Title, &property.PricePerNight,
		&property.Currency, &property.MaxGuests, &property.IsAvailable,
		&property.CreatedAt, &property.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &property, nil
}
