package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbianoutech/roomstay-backend/models"
)

var transactionRowColumns = []string{
	"id", "wallet_id", "user_id", "amount", "type", "status",
	"reference", "booking_id", "description", "external_id", "created_at",
}

func expectGetOrCreateWallet(mock sqlmock.Sqlmock, userID, walletID, balance int64) {
	mock.ExpectQuery(`INSERT INTO wallets`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "currency", "created_at", "updated_at"}).
			AddRow(walletID, userID, balance, "XAF", time.Now(), time.Now()))
}

func TestWalletRepository_Credit_BalanceAndLedgerMoveTogether(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewWalletRepository(db)

	expectGetOrCreateWallet(mock, 7, 3, 0)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE wallets SET balance = balance + $2`)).
		WithArgs(int64(3), int64(28500)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO transactions`).
		WillReturnRows(sqlmock.NewRows(transactionRowColumns).
			AddRow(int64(1), int64(3), int64(7), int64(28500), "payment", "completed",
				"ref1", nil, "Payment for booking #10", "FIN9", time.Now()))
	mock.ExpectCommit()

	transaction, err := repo.Credit(models.LedgerEntry{
		UserID:      7,
		Amount:      28500,
		Type:        models.TransactionTypePayment,
		Description: "Payment for booking #10",
		Reference:   "ref1",
		ExternalID:  "FIN9",
	})

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, transaction.Status)
	assert.Equal(t, int64(28500), transaction.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepository_SettleBookingPayment_ConfirmAndCreditsCommitTogether(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewWalletRepository(db)
	bookingID := int64(10)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`status = 'confirmed'`)).
		WithArgs(bookingID, "FIN9").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO wallets`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE wallets SET balance = balance + $2`)).
		WithArgs(int64(3), int64(28500)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO transactions`).
		WillReturnRows(sqlmock.NewRows(transactionRowColumns).
			AddRow(int64(1), int64(3), int64(42), int64(28500), "payment", "completed",
				"ref1", bookingID, "Payment for booking #10", "FIN9", time.Now()))
	mock.ExpectCommit()

	confirmed, err := repo.SettleBookingPayment(bookingID, "FIN9", []models.LedgerEntry{{
		UserID:      42,
		Amount:      28500,
		Type:        models.TransactionTypePayment,
		Description: "Payment for booking #10",
		Reference:   "ref1",
		ExternalID:  "FIN9",
		BookingID:   &bookingID,
	}})

	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepository_SettleBookingPayment_ReplayCreditsNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewWalletRepository(db)
	bookingID := int64(10)

	// The booking already left pending; the gate fails and the
	// transaction rolls back before any wallet is touched.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`status = 'confirmed'`)).
		WithArgs(bookingID, "FIN9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	confirmed, err := repo.SettleBookingPayment(bookingID, "FIN9", []models.LedgerEntry{{
		UserID: 42, Amount: 28500, Type: models.TransactionTypePayment, Reference: "ref1",
	}})

	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepository_DebitForWithdrawal_InsufficientBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewWalletRepository(db)

	expectGetOrCreateWallet(mock, 7, 3, 1000)
	mock.ExpectBegin()
	// The conditional update touches no row when funds are short.
	mock.ExpectExec(regexp.QuoteMeta(`balance >= $2`)).
		WithArgs(int64(3), int64(5000)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = repo.DebitForWithdrawal(models.LedgerEntry{
		UserID: 7, Amount: 5000, Type: models.TransactionTypeWithdrawal, Reference: "w1",
	})

	assert.Equal(t, ErrInsufficientBalance, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepository_DebitForWithdrawal_RecordsProcessingDebit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewWalletRepository(db)

	expectGetOrCreateWallet(mock, 7, 3, 10000)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`balance >= $2`)).
		WithArgs(int64(3), int64(5000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO transactions`).
		WillReturnRows(sqlmock.NewRows(transactionRowColumns).
			AddRow(int64(2), int64(3), int64(7), int64(-5000), "withdrawal", "processing",
				"w1", nil, "", "", time.Now()))
	mock.ExpectCommit()

	transaction, err := repo.DebitForWithdrawal(models.LedgerEntry{
		UserID: 7, Amount: 5000, Type: models.TransactionTypeWithdrawal, Reference: "w1",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(-5000), transaction.Amount)
	assert.Equal(t, models.TransactionStatusProcessing, transaction.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepository_FailWithdrawal_RefundsOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewWalletRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE transactions SET status = 'failed'`).
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"wallet_id", "amount"}).AddRow(int64(3), int64(-5000)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE wallets SET balance = balance - $2`)).
		WithArgs(int64(3), int64(-5000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	refunded, err := repo.FailWithdrawal("w1")
	require.NoError(t, err)
	assert.True(t, refunded)

	// Duplicate callback: the row is no longer processing.
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE transactions SET status = 'failed'`).
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"wallet_id", "amount"}))
	mock.ExpectRollback()

	refunded, err = repo.FailWithdrawal("w1")
	require.NoError(t, err)
	assert.False(t, refunded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepository_CompleteWithdrawal_GatesOnProcessing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewWalletRepository(db)

	mock.ExpectExec(`UPDATE transactions SET status = 'completed'`).
		WithArgs("w1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	completed, err := repo.CompleteWithdrawal("w1")
	require.NoError(t, err)
	assert.True(t, completed)

	mock.ExpectExec(`UPDATE transactions SET status = 'completed'`).
		WithArgs("w1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	completed, err = repo.CompleteWithdrawal("w1")
	require.NoError(t, err)
	assert.False(t, completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
