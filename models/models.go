// models/models.go
package models

import "time"

// Booking statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
	BookingStatusRefunded  = "refunded"
)

// Payment statuses tracked on a booking
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusExpired    = "expired"
)

// Property represents a listed rental property. The booking core treats
// properties as read-only; listing management lives elsewhere.
type Property struct {
	ID            int64     `json:"id"`
	HostID        int64     `json:"hostId"`
	Title         string    `json:"title"`
	PricePerNight int64     `json:"pricePerNight"` // XAF, whole francs
	Currency      string    `json:"currency"`
	MaxGuests     int       `json:"maxGuests"`
	IsAvailable   bool      `json:"isAvailable"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Booking represents a reservation of a property for a half-open
// [CheckIn, CheckOut) date range. Fee amounts are frozen at creation time
// so webhook settlement uses the figures the guest was charged against.
type Booking struct {
	ID               int64     `json:"id"`
	PropertyID       int64     `json:"propertyId"`
	GuestID          int64     `json:"guestId"`
	CheckIn          time.Time `json:"checkIn"`
	CheckOut         time.Time `json:"checkOut"`
	Guests           int       `json:"guests"`
	BaseAmount       int64     `json:"baseAmount"`
	GuestFee         int64     `json:"guestFee"`
	HostFee          int64     `json:"hostFee"`
	TotalPrice       int64     `json:"totalPrice"` // what the guest pays
	NetAmount        int64     `json:"netAmount"`  // what the host receives
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"paymentStatus"`
	PaymentReference string    `json:"paymentReference,omitempty"`
	TransactionID    string    `json:"transactionId,omitempty"` // financial settlement id
	StatusReason     string    `json:"statusReason,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// IsTerminal reports whether the booking can no longer change status.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusCancelled, BookingStatusCompleted, BookingStatusRefunded:
		return true
	}
	return false
}

// IsBlocking reports whether the booking blocks its date range for
// other reservations.
func (b *Booking) IsBlocking() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// CreateBookingRequest request model
type CreateBookingRequest struct {
	PropertyID    int64  `json:"propertyId" binding:"required"`
	CheckIn       string `json:"checkIn" binding:"required"`
	CheckOut      string `json:"checkOut" binding:"required"`
	Guests        int    `json:"guests" binding:"required,min=1"`
	Phone         string `json:"phone" binding:"required"`
	PaymentMethod string `json:"paymentMethod"`
}

// CancelBookingRequest request model
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// UpdateBookingStatusRequest request model
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// CreateBookingResponse response model
type CreateBookingResponse struct {
	Booking *Booking       `json:"booking"`
	Payment *GatewayResult `json:"payment"`
}

// AvailabilityResponse response model for the availability preview
type AvailabilityResponse struct {
	Available bool      `json:"available"`
	Conflicts []Booking `json:"conflicts,omitempty"`
}
