package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/mbianoutech/roomstay-backend/models"
)

// ErrDateConflict is returned when a booking insert loses the race for a
// date range (or the range was already taken).
var ErrDateConflict = errors.New("dates conflict with an existing booking")

const bookingColumns = `id, property_id, guest_id, check_in, check_out, guests,
	base_amount, guest_fee, host_fee, total_price, net_amount,
	status, payment_status, payment_reference, transaction_id, status_reason,
	created_at, updated_at`

// BookingRepository handles booking data operations
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row bookingScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.PropertyID, &b.GuestID, &b.CheckIn, &b.CheckOut, &b.Guests,
		&b.BaseAmount, &b.GuestFee, &b.HostFee, &b.TotalPrice, &b.NetAmount,
		&b.Status, &b.PaymentStatus, &b.PaymentReference, &b.TransactionID, &b.StatusReason,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a PENDING booking. The overlap check and the insert run
// in one transaction with the property row locked, so two concurrent
// requests for the same dates cannot both pass the check.
func (r *BookingRepository) Create(booking *models.Booking) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Lock the property row to serialize bookings per property.
	var propertyID int64
	err = tx.QueryRow(`SELECT id FROM properties WHERE id = $1 FOR UPDATE`, booking.PropertyID).Scan(&propertyID)
	if err != nil {
		return err
	}

	var conflicts int
	err = tx.QueryRow(`
		SELECT COUNT(*)
		FROM bookings
		WHERE property_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND check_in < $3
		  AND check_out > $2
	`, booking.PropertyID, booking.CheckIn, booking.CheckOut).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return ErrDateConflict
	}

	err = tx.QueryRow(`
		INSERT INTO bookings (property_id, guest_id, check_in, check_out, guests,
			base_amount, guest_fee, host_fee, total_price, net_amount,
			status, payment_status, status_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, booking.PropertyID, booking.GuestID, booking.CheckIn, booking.CheckOut, booking.Guests,
		booking.BaseAmount, booking.GuestFee, booking.HostFee, booking.TotalPrice, booking.NetAmount,
		booking.Status, booking.PaymentStatus, booking.StatusReason,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID retrieves a booking by its ID
func (r *BookingRepository) GetByID(bookingID int64) (*models.Booking, error) {
	return scanBooking(r.db.QueryRow(
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, bookingID))
}

// FindConflicts returns the blocking bookings overlapping the half-open
// [checkIn, checkOut) range for a property.
func (r *BookingRepository) FindConflicts(propertyID int64, checkIn, checkOut time.Time) ([]models.Booking, error) {
	rows, err := r.db.Query(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE property_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND check_in < $3
		  AND check_out > $2
		ORDER BY check_in
	`, propertyID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// Delete removes a booking row. Only used to compensate a failed payment
// initiation; bookings with attempted payments are cancelled, not deleted.
func (r *BookingRepository) Delete(bookingID int64) error {
	_, err := r.db.Exec(`DELETE FROM bookings WHERE id = $1`, bookingID)
	return err
}

// UpdateStatus sets the booking status and reason unconditionally
func (r *BookingRepository) UpdateStatus(bookingID int64, status, reason string) error {
	_, err := r.db.Exec(`
		UPDATE bookings SET status = $2, status_reason = $3, updated_at = NOW()
		WHERE id = $1
	`, bookingID, status, reason)
	return err
}

// UpdatePayment records the payment initiation result on a booking
func (r *BookingRepository) UpdatePayment(bookingID int64, paymentStatus, paymentReference string) error {
	_, err := r.db.Exec(`
		UPDATE bookings SET payment_status = $2, payment_reference = $3, updated_at = NOW()
		WHERE id = $1
	`, bookingID, paymentStatus, paymentReference)
	return err
}

// UpdatePaymentStatus updates only the payment status
func (r *BookingRepository) UpdatePaymentStatus(bookingID int64, paymentStatus string) error {
	_, err := r.db.Exec(`
		UPDATE bookings SET payment_status = $2, updated_at = NOW()
		WHERE id = $1
	`, bookingID, paymentStatus)
	return err
}

// CancelIfPending transitions a booking to CANCELLED only if it is still
// PENDING. Stale failure callbacks for already-settled or already-cancelled
// bookings are no-ops.
func (r *BookingRepository) CancelIfPending(bookingID int64, paymentStatus, reason string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE bookings
		SET status = 'cancelled', payment_status = $2, status_reason = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, bookingID, paymentStatus, reason)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CancelIfActive cancels a booking unless it already reached a terminal
// state. Used for guest-initiated cancellation.
func (r *BookingRepository) CancelIfActive(bookingID int64, reason string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE bookings
		SET status = 'cancelled', status_reason = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
	`, bookingID, reason)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListAll returns bookings ordered by creation time, newest first
func (r *BookingRepository) ListAll(limit int) ([]models.Booking, error) {
	rows, err := r.db.Query(`
		SELECT `+bookingColumns+`
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
