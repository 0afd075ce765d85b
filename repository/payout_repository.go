package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/mbianoutech/roomstay-backend/models"
)

const payoutColumns = `id, user_id, amount, status, phone_number,
	transaction_id, provider_trans_id, status_reason, created_at, updated_at`

// PayoutRepository handles payout request data operations
type PayoutRepository struct {
	db *sql.DB
}

// NewPayoutRepository creates a new payout repository
func NewPayoutRepository(db *sql.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func scanPayout(row transactionScanner) (*models.PayoutRequest, error) {
	var p models.PayoutRequest
	err := row.Scan(
		&p.ID, &p.UserID, &p.Amount, &p.Status, &p.PhoneNumber,
		&p.TransactionID, &p.ProviderTransID, &p.StatusReason,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new PENDING payout request
func (r *PayoutRepository) Create(payout *models.PayoutRequest) error {
	return r.db.QueryRow(`
		INSERT INTO payout_requests (user_id, amount, status, phone_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, payout.UserID, payout.Amount, payout.Status, payout.PhoneNumber,
	).Scan(&payout.ID, &payout.CreatedAt, &payout.UpdatedAt)
}

// GetByID retrieves a payout request by its ID
func (r *PayoutRepository) GetByID(payoutID int64) (*models.PayoutRequest, error) {
	return scanPayout(r.db.QueryRow(
		`SELECT `+payoutColumns+` FROM payout_requests WHERE id = $1`, payoutID))
}

// GetByTransactionID retrieves the payout request tied to a ledger
// transaction. Used by the webhook reconciler to finalize disbursements.
func (r *PayoutRepository) GetByTransactionID(transactionID int64) (*models.PayoutRequest, error) {
	return scanPayout(r.db.QueryRow(
		`SELECT `+payoutColumns+` FROM payout_requests WHERE transaction_id = $1`, transactionID))
}

// SumOutstanding returns the total amount of a user's PENDING, APPROVED
// and PROCESSING payout requests. Caps new requests so the same balance
// cannot be spent twice across concurrent requests.
func (r *PayoutRepository) SumOutstanding(userID int64) (int64, error) {
	var sum int64
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM payout_requests
		WHERE user_id = $1 AND status IN ('pending', 'approved', 'processing')
	`, userID).Scan(&sum)
	return sum, err
}

// UpdateStatusFrom moves a payout request to a new status only if it is
// currently in one of the given statuses. The rows-affected count gates
// concurrent admin actions and duplicate webhook callbacks.
func (r *PayoutRepository) UpdateStatusFrom(payoutID int64, to string, from []string, reason string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE payout_requests
		SET status = $2, status_reason = $3, updated_at = NOW()
		WHERE id = $1 AND status = ANY($4)
	`, payoutID, to, reason, pq.Array(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetTransaction links the payout request to its withdrawal transaction
func (r *PayoutRepository) SetTransaction(payoutID, transactionID int64) error {
	_, err := r.db.Exec(`
		UPDATE payout_requests SET transaction_id = $2, updated_at = NOW()
		WHERE id = $1
	`, payoutID, transactionID)
	return err
}

// SetProviderTransID records the provider's transaction ID after the
// disbursement is initiated
func (r *PayoutRepository) SetProviderTransID(payoutID int64, providerTransID string) error {
	_, err := r.db.Exec(`
		UPDATE payout_requests SET provider_trans_id = $2, updated_at = NOW()
		WHERE id = $1
	`, payoutID, providerTransID)
	return err
}

// ListByUserID returns a user's payout requests, newest first
func (r *PayoutRepository) ListByUserID(userID int64) ([]models.PayoutRequest, error) {
	rows, err := r.db.Query(`
		SELECT `+payoutColumns+`
		FROM payout_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payouts []models.PayoutRequest
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, *p)
	}
	return payouts, rows.Err()
}
