// services/booking_service.go
package services

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/repository"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// bookingStore is the booking access the booking workflows need
type bookingStore interface {
	Create(booking *models.Booking) error
	GetByID(bookingID int64) (*models.Booking, error)
	Delete(bookingID int64) error
	UpdateStatus(bookingID int64, status, reason string) error
	UpdatePayment(bookingID int64, paymentStatus, paymentReference string) error
	CancelIfActive(bookingID int64, reason string) (bool, error)
	ListAll(limit int) ([]models.Booking, error)
}

// collectionInitiator is the gateway access the booking workflows need
type collectionInitiator interface {
	InitializeCollection(payerPhone string, amount int64, externalID, message string) (*models.GatewayResult, error)
}

// BookingService owns the booking lifecycle: creation with payment
// initiation, guest cancellation and admin status overrides. Settlement
// of initiated payments is driven by the webhook reconciler.
type BookingService struct {
	bookings     bookingStore
	availability *AvailabilityService
	fees         *FeeService
	gateway      collectionInitiator
	notifier     Notifier
}

// NewBookingService creates a new booking service
func NewBookingService(bookings bookingStore, availability *AvailabilityService, fees *FeeService, gateway collectionInitiator, notifier Notifier) *BookingService {
	return &BookingService{
		bookings:     bookings,
		availability: availability,
		fees:         fees,
		gateway:      gateway,
		notifier:     notifier,
	}
}

// Create reserves the dates and initiates the guest's mobile-money
// charge. The booking holds the dates in PENDING from the moment it is
// inserted; if the charge cannot even be initiated the booking is
// deleted so the dates are not held by a payment that never started.
func (s *BookingService) Create(guestID int64, req *models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	checkIn, err := utils.ParseDate(req.CheckIn, "checkIn")
	if err != nil {
		return nil, err
	}
	checkOut, err := utils.ParseDate(req.CheckOut, "checkOut")
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateDateRange(checkIn, checkOut); err != nil {
		return nil, err
	}

	property, err := s.availability.CheckBookable(req.PropertyID, checkIn, checkOut, req.Guests)
	if err != nil {
		return nil, err
	}
	if property.HostID == guestID {
		return nil, utils.NewValidationError("hosts cannot book their own property")
	}

	baseAmount := int64(utils.Nights(checkIn, checkOut)) * property.PricePerNight
	fees, err := s.fees.Quote(baseAmount)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		PropertyID:    req.PropertyID,
		GuestID:       guestID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        req.Guests,
		BaseAmount:    baseAmount,
		GuestFee:      fees.GuestServiceFee,
		HostFee:       fees.HostServiceFee,
		TotalPrice:    fees.TotalGuestPays,
		NetAmount:     fees.NetAmountForHost,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}

	err = s.bookings.Create(booking)
	if err == repository.ErrDateConflict {
		return nil, utils.NewConflictError("property is already booked for the selected dates")
	}
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("RoomStay booking #%d: %s", booking.ID, property.Title)
	payment, err := s.gateway.InitializeCollection(
		req.Phone, booking.TotalPrice, strconv.FormatInt(booking.ID, 10), message)
	if err != nil || !payment.Success {
		// The charge never started, so releasing the dates is safe.
		if delErr := s.bookings.Delete(booking.ID); delErr != nil {
			log.Printf("Failed to delete booking %d after payment initiation failure: %v", booking.ID, delErr)
		}
		if err != nil {
			return nil, err
		}
		return nil, utils.NewGatewayError("failed to initiate payment: " + payment.Message)
	}

	booking.PaymentStatus = models.PaymentStatusProcessing
	booking.PaymentReference = payment.TransID
	if err := s.bookings.UpdatePayment(booking.ID, booking.PaymentStatus, booking.PaymentReference); err != nil {
		return nil, err
	}

	s.notifier.Notify(guestID, "booking_created",
		fmt.Sprintf("Booking #%d created, awaiting payment of %d XAF", booking.ID, booking.TotalPrice))

	return &models.CreateBookingResponse{Booking: booking, Payment: payment}, nil
}

// Get returns a booking if the caller may see it: the guest who made
// it, the host of the property, or an admin.
func (s *BookingService) Get(bookingID, callerID int64, role string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Booking")
	}
	if err != nil {
		return nil, err
	}

	if role == utils.RoleAdmin || booking.GuestID == callerID {
		return booking, nil
	}
	property, err := s.availability.GetProperty(booking.PropertyID)
	if err == nil && property.HostID == callerID {
		return booking, nil
	}
	return nil, utils.NewForbiddenError("you do not have access to this booking")
}

// Cancel is the guest-initiated cancellation. Only the booking's guest
// (or an admin) may cancel, and only while the booking is still active.
func (s *BookingService) Cancel(bookingID, callerID int64, role string, reason string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Booking")
	}
	if err != nil {
		return nil, err
	}

	if booking.GuestID != callerID && role != utils.RoleAdmin {
		return nil, utils.NewForbiddenError("only the booking's guest can cancel it")
	}

	if reason == "" {
		reason = "cancelled by guest"
	}
	cancelled, err := s.bookings.CancelIfActive(bookingID, reason)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, utils.NewConflictError(
			fmt.Sprintf("booking is already %s and cannot be cancelled", booking.Status))
	}

	s.notifier.Notify(booking.GuestID, "booking_cancelled",
		fmt.Sprintf("Booking #%d cancelled: %s", bookingID, reason))

	return s.bookings.GetByID(bookingID)
}

// UpdateStatus is the host/admin status update. Hosts may only touch
// bookings on their own properties. Terminal bookings are locked: once
// cancelled, completed or refunded, the status never changes again.
func (s *BookingService) UpdateStatus(bookingID, callerID int64, role string, status, reason string) (*models.Booking, error) {
	switch status {
	case models.BookingStatusPending, models.BookingStatusConfirmed,
		models.BookingStatusCancelled, models.BookingStatusCompleted,
		models.BookingStatusRefunded:
	default:
		return nil, utils.NewValidationError("invalid booking status: " + status)
	}

	booking, err := s.bookings.GetByID(bookingID)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Booking")
	}
	if err != nil {
		return nil, err
	}

	if role != utils.RoleAdmin {
		property, err := s.availability.GetProperty(booking.PropertyID)
		if err != nil {
			return nil, err
		}
		if property.HostID != callerID {
			return nil, utils.NewForbiddenError("only the property's host can update this booking")
		}
	}

	if booking.IsTerminal() {
		return nil, utils.NewConflictError(
			fmt.Sprintf("booking is already %s and cannot change status", booking.Status))
	}

	if err := s.bookings.UpdateStatus(bookingID, status, reason); err != nil {
		return nil, err
	}
	return s.bookings.GetByID(bookingID)
}

// List returns recent bookings for the admin overview
func (s *BookingService) List(limit int) ([]models.Booking, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.bookings.ListAll(limit)
}

// Availability reports whether a property's dates are free, with the
// blocking bookings when they are not
func (s *BookingService) Availability(propertyID int64, checkIn, checkOut time.Time) (*models.AvailabilityResponse, error) {
	if _, err := s.availability.GetProperty(propertyID); err != nil {
		return nil, err
	}
	conflicts, err := s.availability.FindConflicts(propertyID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	return &models.AvailabilityResponse{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

// Preview prices a prospective stay without reserving anything
func (s *BookingService) Preview(propertyID int64, checkInStr, checkOutStr string, guests int) (*models.FeePreviewResponse, error) {
	checkIn, err := utils.ParseDate(checkInStr, "checkIn")
	if err != nil {
		return nil, err
	}
	checkOut, err := utils.ParseDate(checkOutStr, "checkOut")
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateDateRange(checkIn, checkOut); err != nil {
		return nil, err
	}

	property, err := s.availability.GetProperty(propertyID)
	if err != nil {
		return nil, err
	}

	available, err := s.availability.IsAvailable(propertyID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	nights := utils.Nights(checkIn, checkOut)
	fees, err := s.fees.Quote(int64(nights) * property.PricePerNight)
	if err != nil {
		return nil, err
	}

	return &models.FeePreviewResponse{
		PropertyID: propertyID,
		Nights:     nights,
		Available:  available,
		Fees:       fees,
	}, nil
}
