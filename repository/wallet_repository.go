package repository

import (
	"database/sql"
	"errors"

	"github.com/mbianoutech/roomstay-backend/models"
)

// ErrInsufficientBalance is returned when a debit would take a wallet
// below zero.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

const transactionColumns = `id, wallet_id, user_id, amount, type, status,
	reference, booking_id, description, external_id, created_at`

// WalletRepository is the only code path that mutates wallet balances.
// Every balance change happens in the same database transaction as its
// ledger row, as a single conditional UPDATE, so concurrent movements
// cannot lose updates.
type WalletRepository struct {
	db *sql.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

type transactionScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row transactionScanner) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.WalletID, &t.UserID, &t.Amount, &t.Type, &t.Status,
		&t.Reference, &t.BookingID, &t.Description, &t.ExternalID, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetOrCreate returns the user's wallet, creating it lazily on first use
func (r *WalletRepository) GetOrCreate(userID int64) (*models.Wallet, error) {
	query := `
		INSERT INTO wallets (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, balance, currency, created_at, updated_at
	`
	var w models.Wallet
	err := r.db.QueryRow(query, userID).Scan(
		&w.ID, &w.UserID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByUserID retrieves a wallet by user ID
func (r *WalletRepository) GetByUserID(userID int64) (*models.Wallet, error) {
	query := `
		SELECT id, user_id, balance, currency, created_at, updated_at
		FROM wallets WHERE user_id = $1
	`
	var w models.Wallet
	err := r.db.QueryRow(query, userID).Scan(
		&w.ID, &w.UserID, &w.Balance, &w.Currency, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Credit adds funds to a wallet: one completed transaction row plus a
// relative balance update, in one database transaction.
func (r *WalletRepository) Credit(entry models.LedgerEntry) (*models.Transaction, error) {
	wallet, err := r.GetOrCreate(entry.UserID)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE wallets SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
	`, wallet.ID, entry.Amount)
	if err != nil {
		return nil, err
	}

	row, err := insertTransaction(tx, wallet.ID, entry, entry.Amount, models.TransactionStatusCompleted)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return row, nil
}

// SettleBookingPayment confirms a pending booking and applies its
// settlement credits in a single database transaction. The conditional
// booking update is the idempotency gate: a replayed callback finds no
// pending row and the whole transaction rolls back with no credits
// applied. A failure at any point also rolls everything back, leaving
// the booking pending so the next delivery settles it in full.
func (r *WalletRepository) SettleBookingPayment(bookingID int64, financialTransID string, entries []models.LedgerEntry) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE bookings
		SET status = 'confirmed', payment_status = 'completed', transaction_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, bookingID, financialTransID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	for _, entry := range entries {
		var walletID int64
		err = tx.QueryRow(`
			INSERT INTO wallets (user_id)
			VALUES ($1)
			ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
			RETURNING id
		`, entry.UserID).Scan(&walletID)
		if err != nil {
			return false, err
		}

		_, err = tx.Exec(`
			UPDATE wallets SET balance = balance + $2, updated_at = NOW()
			WHERE id = $1
		`, walletID, entry.Amount)
		if err != nil {
			return false, err
		}

		if _, err := insertTransaction(tx, walletID, entry, entry.Amount, models.TransactionStatusCompleted); err != nil {
			return false, err
		}
	}

	return true, tx.Commit()
}

// DebitForWithdrawal reserves funds for a payout: the balance decrement
// is conditional on sufficient funds, and the ledger row starts in
// PROCESSING until the disbursement settles.
func (r *WalletRepository) DebitForWithdrawal(entry models.LedgerEntry) (*models.Transaction, error) {
	wallet, err := r.GetOrCreate(entry.UserID)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE wallets SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2
	`, wallet.ID, entry.Amount)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrInsufficientBalance
	}

	row, err := insertTransaction(tx, wallet.ID, entry, -entry.Amount, models.TransactionStatusProcessing)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return row, nil
}

// CompleteWithdrawal marks a processing withdrawal as completed. No
// money moves; the debit already happened at approval. Returns false if
// the withdrawal already settled (duplicate callback).
func (r *WalletRepository) CompleteWithdrawal(reference string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE transactions SET status = 'completed'
		WHERE reference = $1 AND type = 'withdrawal' AND status = 'processing'
	`, reference)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// FailWithdrawal marks a processing withdrawal as failed and refunds the
// wallet in the same transaction. This is the one place money moves
// backward; the conditional status flip makes a duplicate failure
// callback a no-op (no double refund).
func (r *WalletRepository) FailWithdrawal(reference string) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var walletID, amount int64
	err = tx.QueryRow(`
		UPDATE transactions SET status = 'failed'
		WHERE reference = $1 AND type = 'withdrawal' AND status = 'processing'
		RETURNING wallet_id, amount
	`, reference).Scan(&walletID, &amount)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// amount is negative for withdrawals; subtracting it restores funds.
	_, err = tx.Exec(`
		UPDATE wallets SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1
	`, walletID, amount)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// GetTransactionByReference retrieves a ledger row by its reference
func (r *WalletRepository) GetTransactionByReference(reference string) (*models.Transaction, error) {
	return scanTransaction(r.db.QueryRow(
		`SELECT `+transactionColumns+` FROM transactions WHERE reference = $1`, reference))
}

// GetTransactionsByUserID returns a user's ledger, newest first
func (r *WalletRepository) GetTransactionsByUserID(userID int64, limit int) ([]models.Transaction, error) {
	rows, err := r.db.Query(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListAllTransactions returns the full ledger, newest first
func (r *WalletRepository) ListAllTransactions(limit int) ([]models.Transaction, error) {
	rows, err := r.db.Query(`
		SELECT `+transactionColumns+`
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// SumByStatus returns the sum of a user's transaction amounts in the
// given status. Feeds the wallet reconciliation check.
func (r *WalletRepository) SumByStatus(userID int64, status string) (int64, error) {
	var sum int64
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND status = $2
	`, userID, status).Scan(&sum)
	return sum, err
}

func insertTransaction(tx *sql.Tx, walletID int64, entry models.LedgerEntry, signedAmount int64, status string) (*models.Transaction, error) {
	return scanTransaction(tx.QueryRow(`
		INSERT INTO transactions (wallet_id, user_id, amount, type, status, reference, booking_id, description, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+transactionColumns+`
	`, walletID, entry.UserID, signedAmount, entry.Type, status,
		entry.Reference, entry.BookingID, entry.Description, entry.ExternalID))
}

func collectTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}
