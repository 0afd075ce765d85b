// services/wallet_service.go
package services

import (
	"database/sql"
	"fmt"

	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// walletStore is the ledger access the wallet workflows need
type walletStore interface {
	GetOrCreate(userID int64) (*models.Wallet, error)
	GetByUserID(userID int64) (*models.Wallet, error)
	Credit(entry models.LedgerEntry) (*models.Transaction, error)
	SettleBookingPayment(bookingID int64, financialTransID string, entries []models.LedgerEntry) (bool, error)
	DebitForWithdrawal(entry models.LedgerEntry) (*models.Transaction, error)
	CompleteWithdrawal(reference string) (bool, error)
	FailWithdrawal(reference string) (bool, error)
	GetTransactionByReference(reference string) (*models.Transaction, error)
	GetTransactionsByUserID(userID int64, limit int) ([]models.Transaction, error)
	ListAllTransactions(limit int) ([]models.Transaction, error)
	SumByStatus(userID int64, status string) (int64, error)
}

// WalletService exposes wallet balances and the booking settlement
// credit. All balance mutations go through the wallet repository so the
// ledger row and the balance always move together.
type WalletService struct {
	wallets walletStore
}

// NewWalletService creates a new wallet service
func NewWalletService(wallets walletStore) *WalletService {
	return &WalletService{wallets: wallets}
}

// GetWallet returns a user's wallet, creating it on first access
func (s *WalletService) GetWallet(userID int64) (*models.Wallet, error) {
	return s.wallets.GetOrCreate(userID)
}

// GetTransactions returns a user's ledger, newest first
func (s *WalletService) GetTransactions(userID int64, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.wallets.GetTransactionsByUserID(userID, limit)
}

// SettleBooking distributes a paid booking: the host's wallet is
// credited with the net amount and the platform wallet records both
// service fees, in the same database transaction that moves the booking
// from PENDING to CONFIRMED. Returns false when the booking already left
// PENDING (replayed or stale callback); nothing is credited then. All
// rows carry the provider's financial transaction ID for audit.
func (s *WalletService) SettleBooking(booking *models.Booking, hostID int64, financialTransID string) (bool, error) {
	bookingID := booking.ID
	entries := []models.LedgerEntry{{
		UserID:      hostID,
		Amount:      booking.NetAmount,
		Type:        models.TransactionTypePayment,
		Description: fmt.Sprintf("Payment for booking #%d", bookingID),
		Reference:   utils.GenerateReference(),
		ExternalID:  financialTransID,
		BookingID:   &bookingID,
	}}

	for _, fee := range []struct {
		amount int64
		label  string
	}{
		{booking.HostFee, "Host service fee"},
		{booking.GuestFee, "Guest service fee"},
	} {
		if fee.amount <= 0 {
			continue
		}
		entries = append(entries, models.LedgerEntry{
			UserID:      utils.PlatformUserID,
			Amount:      fee.amount,
			Type:        models.TransactionTypeFee,
			Description: fmt.Sprintf("%s for booking #%d", fee.label, bookingID),
			Reference:   utils.GenerateReference(),
			ExternalID:  financialTransID,
			BookingID:   &bookingID,
		})
	}

	return s.wallets.SettleBookingPayment(bookingID, financialTransID, entries)
}

// Reconcile compares a wallet's cached balance against its ledger. With
// nothing in flight the balance must equal the sum of completed rows;
// in-flight withdrawals sit in processing rows and explain any gap.
func (s *WalletService) Reconcile(userID int64) (*models.WalletReconciliation, error) {
	wallet, err := s.wallets.GetByUserID(userID)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Wallet")
	}
	if err != nil {
		return nil, err
	}

	sumCompleted, err := s.wallets.SumByStatus(userID, models.TransactionStatusCompleted)
	if err != nil {
		return nil, err
	}
	sumProcessing, err := s.wallets.SumByStatus(userID, models.TransactionStatusProcessing)
	if err != nil {
		return nil, err
	}

	return &models.WalletReconciliation{
		UserID:        userID,
		Balance:       wallet.Balance,
		SumCompleted:  sumCompleted,
		SumProcessing: sumProcessing,
		Consistent:    wallet.Balance == sumCompleted+sumProcessing,
	}, nil
}
