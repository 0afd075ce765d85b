package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/utils"
)

type stubProperties struct {
	properties map[int64]*models.Property
}

func (s *stubProperties) GetByID(propertyID int64) (*models.Property, error) {
	if p, ok := s.properties[propertyID]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

type stubBookingConflicts struct {
	conflicts []models.Booking
	err       error
}

func (s *stubBookingConflicts) FindConflicts(propertyID int64, checkIn, checkOut time.Time) ([]models.Booking, error) {
	return s.conflicts, s.err
}

func date(value string) time.Time {
	d, _ := time.Parse(utils.DateLayout, value)
	return d
}

func testProperty() *models.Property {
	return &models.Property{
		ID:            1,
		HostID:        42,
		Title:         "Douala studio",
		PricePerNight: 10000,
		Currency:      "XAF",
		MaxGuests:     4,
		IsAvailable:   true,
	}
}

func TestAvailabilityService_CheckBookable_AllowsFreeDates(t *testing.T) {
	service := NewAvailabilityService(
		&stubBookingConflicts{}, &stubProperties{properties: map[int64]*models.Property{1: testProperty()}}, nil)

	property, err := service.CheckBookable(1, date("2026-10-01"), date("2026-10-04"), 2)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), property.ID)
}

func TestAvailabilityService_CheckBookable_RejectsConflictingDates(t *testing.T) {
	blocking := models.Booking{ID: 9, Status: models.BookingStatusConfirmed}
	service := NewAvailabilityService(
		&stubBookingConflicts{conflicts: []models.Booking{blocking}},
		&stubProperties{properties: map[int64]*models.Property{1: testProperty()}}, nil)

	_, err := service.CheckBookable(1, date("2026-10-01"), date("2026-10-04"), 2)

	appErr, ok := err.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, 409, appErr.Code)
}

func TestAvailabilityService_CheckBookable_RejectsUnlistedProperty(t *testing.T) {
	property := testProperty()
	property.IsAvailable = false
	service := NewAvailabilityService(
		&stubBookingConflicts{}, &stubProperties{properties: map[int64]*models.Property{1: property}}, nil)

	_, err := service.CheckBookable(1, date("2026-10-01"), date("2026-10-04"), 2)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestAvailabilityService_CheckBookable_RejectsTooManyGuests(t *testing.T) {
	service := NewAvailabilityService(
		&stubBookingConflicts{}, &stubProperties{properties: map[int64]*models.Property{1: testProperty()}}, nil)

	_, err := service.CheckBookable(1, date("2026-10-01"), date("2026-10-04"), 5)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "guest count")
}

func TestAvailabilityService_GetProperty_NotFound(t *testing.T) {
	service := NewAvailabilityService(&stubBookingConflicts{}, &stubProperties{}, nil)

	_, err := service.GetProperty(99)

	appErr, ok := err.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
}

func TestAvailabilityService_IsAvailable(t *testing.T) {
	free := NewAvailabilityService(
		&stubBookingConflicts{}, &stubProperties{properties: map[int64]*models.Property{1: testProperty()}}, nil)
	available, err := free.IsAvailable(1, date("2026-10-01"), date("2026-10-04"))
	assert.NoError(t, err)
	assert.True(t, available)

	taken := NewAvailabilityService(
		&stubBookingConflicts{conflicts: []models.Booking{{ID: 3}}},
		&stubProperties{properties: map[int64]*models.Property{1: testProperty()}}, nil)
	available, err = taken.IsAvailable(1, date("2026-10-01"), date("2026-10-04"))
	assert.NoError(t, err)
	assert.False(t, available)
}
