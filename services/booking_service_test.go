package services

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/repository"
	"github.com/mbianoutech/roomstay-backend/utils"
)

type fakeBookings struct {
	bookings  map[int64]*models.Booking
	nextID    int64
	createErr error
	deleted   []int64
	payments  []string
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{bookings: make(map[int64]*models.Booking), nextID: 1}
}

func (f *fakeBookings) Create(booking *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	booking.ID = f.nextID
	f.nextID++
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookings) GetByID(bookingID int64) (*models.Booking, error) {
	if b, ok := f.bookings[bookingID]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBookings) Delete(bookingID int64) error {
	f.deleted = append(f.deleted, bookingID)
	delete(f.bookings, bookingID)
	return nil
}

func (f *fakeBookings) UpdateStatus(bookingID int64, status, reason string) error {
	b := f.bookings[bookingID]
	b.Status = status
	b.StatusReason = reason
	return nil
}

func (f *fakeBookings) UpdatePayment(bookingID int64, paymentStatus, paymentReference string) error {
	b := f.bookings[bookingID]
	b.PaymentStatus = paymentStatus
	b.PaymentReference = paymentReference
	f.payments = append(f.payments, fmt.Sprintf("%d:%s:%s", bookingID, paymentStatus, paymentReference))
	return nil
}

func (f *fakeBookings) CancelIfActive(bookingID int64, reason string) (bool, error) {
	b, ok := f.bookings[bookingID]
	if !ok || !b.IsBlocking() {
		return false, nil
	}
	b.Status = models.BookingStatusCancelled
	b.StatusReason = reason
	return true, nil
}

func (f *fakeBookings) ListAll(limit int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, nil
}

type gatewayCall struct {
	phone      string
	amount     int64
	externalID string
}

type stubGateway struct {
	result       *models.GatewayResult
	err          error
	verifyResult *models.GatewayResult
	calls        []gatewayCall
}

func (s *stubGateway) InitializeCollection(payerPhone string, amount int64, externalID, message string) (*models.GatewayResult, error) {
	s.calls = append(s.calls, gatewayCall{payerPhone, amount, externalID})
	return s.result, s.err
}

func (s *stubGateway) InitializeDisbursement(payeePhone string, amount int64, externalID, message string) (*models.GatewayResult, error) {
	s.calls = append(s.calls, gatewayCall{payeePhone, amount, externalID})
	return s.result, s.err
}

func (s *stubGateway) VerifyStatus(transID, serviceType string) (*models.GatewayResult, error) {
	return s.verifyResult, s.err
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Notify(userID int64, event, message string) {
	n.events = append(n.events, event)
}

func newBookingFixture(gateway *stubGateway) (*BookingService, *fakeBookings) {
	bookings := newFakeBookings()
	availability := NewAvailabilityService(
		&stubBookingConflicts{}, &stubProperties{properties: map[int64]*models.Property{1: testProperty()}}, nil)
	fees := NewFeeService(&stubFeeConfigs{err: sql.ErrNoRows}, nil)
	service := NewBookingService(bookings, availability, fees, gateway, &recordingNotifier{})
	return service, bookings
}

func futureStay(nights int) (string, string) {
	checkIn := time.Now().AddDate(0, 1, 0)
	checkOut := checkIn.AddDate(0, 0, nights)
	return checkIn.Format(utils.DateLayout), checkOut.Format(utils.DateLayout)
}

func TestBookingService_Create_InitiatesPayment(t *testing.T) {
	gateway := &stubGateway{result: &models.GatewayResult{
		Success: true, TransID: "FAP123", Status: models.ProviderStatusCreated}}
	service, bookings := newBookingFixture(gateway)

	checkIn, checkOut := futureStay(3)
	response, err := service.Create(7, &models.CreateBookingRequest{
		PropertyID: 1,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
		Phone:      "670000001",
	})

	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, response.Booking.Status)
	assert.Equal(t, int64(30000), response.Booking.BaseAmount)
	assert.Equal(t, int64(900), response.Booking.GuestFee)
	assert.Equal(t, int64(1500), response.Booking.HostFee)
	assert.Equal(t, int64(30900), response.Booking.TotalPrice)
	assert.Equal(t, int64(28500), response.Booking.NetAmount)
	assert.Equal(t, models.PaymentStatusProcessing, response.Booking.PaymentStatus)
	assert.Equal(t, "FAP123", response.Booking.PaymentReference)

	// The gateway is asked for the guest-facing total, correlated by
	// booking ID.
	require.Len(t, gateway.calls, 1)
	assert.Equal(t, int64(30900), gateway.calls[0].amount)
	assert.Equal(t, "1", gateway.calls[0].externalID)

	stored, err := bookings.GetByID(response.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusProcessing, stored.PaymentStatus)
}

func TestBookingService_Create_DeletesBookingWhenInitiationFails(t *testing.T) {
	gateway := &stubGateway{result: &models.GatewayResult{
		Success: false, Status: models.GatewayStatusNetworkError, Message: "payment provider unreachable"}}
	service, bookings := newBookingFixture(gateway)

	checkIn, checkOut := futureStay(2)
	_, err := service.Create(7, &models.CreateBookingRequest{
		PropertyID: 1, CheckIn: checkIn, CheckOut: checkOut, Guests: 1, Phone: "670000001",
	})

	assert.Error(t, err)
	assert.Equal(t, []int64{1}, bookings.deleted)
	assert.Empty(t, bookings.bookings)
}

func TestBookingService_Create_RejectsHostBookingOwnProperty(t *testing.T) {
	service, _ := newBookingFixture(&stubGateway{result: &models.GatewayResult{Success: true}})

	checkIn, checkOut := futureStay(2)
	_, err := service.Create(42, &models.CreateBookingRequest{
		PropertyID: 1, CheckIn: checkIn, CheckOut: checkOut, Guests: 1, Phone: "670000001",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "own property")
}

func TestBookingService_Create_MapsDateConflictTo409(t *testing.T) {
	gateway := &stubGateway{result: &models.GatewayResult{Success: true}}
	service, bookings := newBookingFixture(gateway)
	bookings.createErr = repository.ErrDateConflict

	checkIn, checkOut := futureStay(2)
	_, err := service.Create(7, &models.CreateBookingRequest{
		PropertyID: 1, CheckIn: checkIn, CheckOut: checkOut, Guests: 1, Phone: "670000001",
	})

	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Code)
	assert.Empty(t, gateway.calls)
}

func TestBookingService_Cancel_OnlyGuestOrAdmin(t *testing.T) {
	service, bookings := newBookingFixture(&stubGateway{})
	bookings.bookings[5] = &models.Booking{ID: 5, GuestID: 7, Status: models.BookingStatusConfirmed}

	_, err := service.Cancel(5, 8, utils.RoleGuest, "changed plans")
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Code)

	cancelled, err := service.Cancel(5, 7, utils.RoleGuest, "changed plans")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
}

func TestBookingService_Cancel_RejectsTerminalBooking(t *testing.T) {
	service, bookings := newBookingFixture(&stubGateway{})
	bookings.bookings[5] = &models.Booking{ID: 5, GuestID: 7, Status: models.BookingStatusCompleted}

	_, err := service.Cancel(5, 7, utils.RoleGuest, "")

	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Code)
}

func TestBookingService_UpdateStatus_LocksTerminalStates(t *testing.T) {
	service, bookings := newBookingFixture(&stubGateway{})
	bookings.bookings[5] = &models.Booking{ID: 5, Status: models.BookingStatusRefunded}

	_, err := service.UpdateStatus(5, 1, utils.RoleAdmin, models.BookingStatusConfirmed, "admin override")

	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Code)
}

func TestBookingService_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	service, bookings := newBookingFixture(&stubGateway{})
	bookings.bookings[5] = &models.Booking{ID: 5, Status: models.BookingStatusPending}

	_, err := service.UpdateStatus(5, 1, utils.RoleAdmin, "archived", "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid booking status")
}

func TestBookingService_UpdateStatus_HostMustOwnProperty(t *testing.T) {
	service, bookings := newBookingFixture(&stubGateway{})
	bookings.bookings[5] = &models.Booking{ID: 5, PropertyID: 1, Status: models.BookingStatusConfirmed}

	_, err := service.UpdateStatus(5, 99, utils.RoleHost, models.BookingStatusCompleted, "")
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Code)

	updated, err := service.UpdateStatus(5, 42, utils.RoleHost, models.BookingStatusCompleted, "stay finished")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, updated.Status)
}
