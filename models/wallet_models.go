package models

import "time"

// Transaction types
const (
	TransactionTypePayment    = "payment"
	TransactionTypeRefund     = "refund"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeCredit     = "credit"
	TransactionTypeDebit      = "debit"
	TransactionTypeFee        = "fee"
)

// Transaction statuses
const (
	TransactionStatusPending    = "pending"
	TransactionStatusProcessing = "processing"
	TransactionStatusCompleted  = "completed"
	TransactionStatusFailed     = "failed"
)

// Payout request statuses
const (
	PayoutStatusPending    = "pending"
	PayoutStatusApproved   = "approved"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
	PayoutStatusRejected   = "rejected"
	PayoutStatusCancelled  = "cancelled"
)

// Wallet holds a user's cached balance. The balance is only ever mutated
// together with a Transaction row; at rest it equals the sum of the
// wallet's completed transaction amounts.
type Wallet struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Balance   int64     `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Transaction is one append-only ledger entry. Amount is signed: negative
// amounts are debits.
type Transaction struct {
	ID          int64     `json:"id"`
	WalletID    int64     `json:"walletId"`
	UserID      int64     `json:"userId"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference,omitempty"`
	BookingID   *int64    `json:"bookingId,omitempty"`
	Description string    `json:"description,omitempty"`
	ExternalID  string    `json:"externalId,omitempty"` // provider financial trans id
	CreatedAt   time.Time `json:"createdAt"`
}

// LedgerEntry describes a credit or debit to apply to a user's wallet.
type LedgerEntry struct {
	UserID      int64
	Amount      int64 // always positive; direction comes from the operation
	Type        string
	Description string
	Reference   string
	ExternalID  string
	BookingID   *int64
}

// PayoutRequest is a host's withdrawal request. The wallet is debited at
// approval time; a failed disbursement refunds the debit.
type PayoutRequest struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	Amount          int64     `json:"amount"`
	Status          string    `json:"status"`
	PhoneNumber     string    `json:"phoneNumber"`
	TransactionID   *int64    `json:"transactionId,omitempty"`
	ProviderTransID string    `json:"providerTransId,omitempty"`
	StatusReason    string    `json:"statusReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreatePayoutRequest request model
type CreatePayoutRequest struct {
	Amount int64  `json:"amount" binding:"required,min=1"`
	Phone  string `json:"phone" binding:"required"`
}

// RejectPayoutRequest request model
type RejectPayoutRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// WalletReconciliation reports the cached balance against the ledger.
// In-flight withdrawals sit in processing transactions, so a consistent
// wallet satisfies balance == sumCompleted + sumProcessing; with nothing
// in flight the stricter balance == sumCompleted holds.
type WalletReconciliation struct {
	UserID        int64 `json:"userId"`
	Balance       int64 `json:"balance"`
	SumCompleted  int64 `json:"sumCompleted"`
	SumProcessing int64 `json:"sumProcessing"`
	Consistent    bool  `json:"consistent"`
}
