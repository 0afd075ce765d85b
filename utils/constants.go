package utils

const (
	// Date handling
	DateLayout = "2006-01-02"

	// Money
	DefaultCurrency = "XAF"

	// Default fee schedule used when no fee config row is active
	DefaultHostFeePercent  = 5.0
	DefaultGuestFeePercent = 3.0

	// Caller identity headers set by the upstream auth layer
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	// Roles
	RoleGuest = "guest"
	RoleHost  = "host"
	RoleAdmin = "admin"

	// HTTP status messages
	ErrInvalidRequest   = "Invalid request"
	ErrInvalidBookingID = "Invalid booking ID"
	ErrInvalidPayoutID  = "Invalid payout request ID"

	// Reference generation
	ReferenceLength  = 20
	ReferenceCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// PlatformUserID owns the wallet that collects service fees
const PlatformUserID int64 = 0
