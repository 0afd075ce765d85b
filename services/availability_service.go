package services

import (
	"database/sql"
	"time"

	"github.com/mbianoutech/roomstay-backend/cache"
	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// bookingConflictStore is the booking access the availability checks need
type bookingConflictStore interface {
	FindConflicts(propertyID int64, checkIn, checkOut time.Time) ([]models.Booking, error)
}

// propertyStore is the property access the availability checks need
type propertyStore interface {
	GetByID(propertyID int64) (*models.Property, error)
}

// AvailabilityService answers whether a property can be booked for a
// date range. Intervals are half-open: a checkout and a check-in on the
// same day do not conflict. Only pending and confirmed bookings block.
type AvailabilityService struct {
	bookings   bookingConflictStore
	properties propertyStore
	cache      *cache.Cache
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(bookings bookingConflictStore, properties propertyStore, c *cache.Cache) *AvailabilityService {
	return &AvailabilityService{bookings: bookings, properties: properties, cache: c}
}

// GetProperty fetches a property, read-through cached. Properties are
// read-only to the booking core, so a short TTL cache is safe.
func (s *AvailabilityService) GetProperty(propertyID int64) (*models.Property, error) {
	if p, ok := s.cache.GetProperty(propertyID); ok {
		return p, nil
	}

	property, err := s.properties.GetByID(propertyID)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Property")
	}
	if err != nil {
		return nil, err
	}

	s.cache.SetProperty(property)
	return property, nil
}

// FindConflicts returns the blocking bookings overlapping the range
func (s *AvailabilityService) FindConflicts(propertyID int64, checkIn, checkOut time.Time) ([]models.Booking, error) {
	return s.bookings.FindConflicts(propertyID, checkIn, checkOut)
}

// IsAvailable reports whether the date range is free of blocking
// bookings. It says nothing about guest counts or the property's
// listing flag; CheckBookable covers the full booking-time rule.
func (s *AvailabilityService) IsAvailable(propertyID int64, checkIn, checkOut time.Time) (bool, error) {
	conflicts, err := s.FindConflicts(propertyID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// CheckBookable validates the full booking-time rule: the property is
// listed, the guest count fits, and the date range has no conflicts.
// Returns the property so callers can price the stay.
func (s *AvailabilityService) CheckBookable(propertyID int64, checkIn, checkOut time.Time, guests int) (*models.Property, error) {
	property, err := s.GetProperty(propertyID)
	if err != nil {
		return nil, err
	}

	if !property.IsAvailable {
		return nil, utils.NewValidationError("property is not available for booking")
	}
	if guests > property.MaxGuests {
		return nil, utils.NewValidationError("guest count exceeds the property's maximum")
	}

	conflicts, err := s.FindConflicts(propertyID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, utils.NewConflictError("property is already booked for the selected dates")
	}

	return property, nil
}
