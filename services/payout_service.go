// services/payout_service.go
package services

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/repository"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// payoutStore is the payout request access the payout workflows need
type payoutStore interface {
	Create(payout *models.PayoutRequest) error
	GetByID(payoutID int64) (*models.PayoutRequest, error)
	SumOutstanding(userID int64) (int64, error)
	UpdateStatusFrom(payoutID int64, to string, from []string, reason string) (bool, error)
	SetTransaction(payoutID, transactionID int64) error
	SetProviderTransID(payoutID int64, providerTransID string) error
	ListByUserID(userID int64) ([]models.PayoutRequest, error)
}

// disbursementInitiator is the gateway access the payout workflows need
type disbursementInitiator interface {
	InitializeDisbursement(payeePhone string, amount int64, externalID, message string) (*models.GatewayResult, error)
}

// PayoutService owns the host withdrawal workflow. Requests are held in
// PENDING until an admin approves; the wallet is debited at approval,
// and a disbursement that cannot be initiated refunds the debit.
type PayoutService struct {
	payouts  payoutStore
	wallets  walletStore
	gateway  disbursementInitiator
	notifier Notifier
}

// NewPayoutService creates a new payout service
func NewPayoutService(payouts payoutStore, wallets walletStore, gateway disbursementInitiator, notifier Notifier) *PayoutService {
	return &PayoutService{payouts: payouts, wallets: wallets, gateway: gateway, notifier: notifier}
}

// Create files a withdrawal request. Eligibility counts outstanding
// requests against the balance, so two pending requests cannot both
// claim the same funds.
func (s *PayoutService) Create(userID int64, req *models.CreatePayoutRequest) (*models.PayoutRequest, error) {
	phone, err := utils.NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateAmount(req.Amount, "amount"); err != nil {
		return nil, err
	}

	wallet, err := s.wallets.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.payouts.SumOutstanding(userID)
	if err != nil {
		return nil, err
	}
	if req.Amount > wallet.Balance-outstanding {
		return nil, utils.NewInsufficientBalanceError(fmt.Sprintf(
			"requested %d exceeds available balance of %d (balance %d, outstanding requests %d)",
			req.Amount, wallet.Balance-outstanding, wallet.Balance, outstanding))
	}

	payout := &models.PayoutRequest{
		UserID:      userID,
		Amount:      req.Amount,
		Status:      models.PayoutStatusPending,
		PhoneNumber: phone,
	}
	if err := s.payouts.Create(payout); err != nil {
		return nil, err
	}

	s.notifier.Notify(userID, "payout_requested",
		fmt.Sprintf("Payout request #%d for %d XAF submitted", payout.ID, payout.Amount))
	return payout, nil
}

// Approve is the admin approval: the request moves to APPROVED, the
// wallet is debited, and the disbursement is initiated. If the debit
// fails the request moves to FAILED; if the disbursement cannot be
// initiated the debit is refunded and the request moves to FAILED.
// Final settlement to COMPLETED or FAILED comes through the webhook.
func (s *PayoutService) Approve(payoutID int64) (*models.PayoutRequest, error) {
	payout, err := s.payouts.GetByID(payoutID)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Payout request")
	}
	if err != nil {
		return nil, err
	}

	approved, err := s.payouts.UpdateStatusFrom(payoutID,
		models.PayoutStatusApproved, []string{models.PayoutStatusPending}, "")
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, utils.NewConflictError(
			fmt.Sprintf("payout request is %s, only pending requests can be approved", payout.Status))
	}

	reference := utils.GenerateReference()
	transaction, err := s.wallets.DebitForWithdrawal(models.LedgerEntry{
		UserID:      payout.UserID,
		Amount:      payout.Amount,
		Type:        models.TransactionTypeWithdrawal,
		Description: fmt.Sprintf("Withdrawal for payout request #%d", payoutID),
		Reference:   reference,
	})
	if err == repository.ErrInsufficientBalance {
		s.fail(payoutID, models.PayoutStatusApproved, "insufficient balance at approval time")
		return nil, utils.NewInsufficientBalanceError("wallet balance no longer covers the payout")
	}
	if err != nil {
		return nil, err
	}
	if err := s.payouts.SetTransaction(payoutID, transaction.ID); err != nil {
		return nil, err
	}

	result, err := s.gateway.InitializeDisbursement(
		payout.PhoneNumber, payout.Amount, reference,
		fmt.Sprintf("RoomStay payout #%d", payoutID))
	if err != nil || !result.Success {
		// Money never left; put it back and close the request.
		if _, refundErr := s.wallets.FailWithdrawal(reference); refundErr != nil {
			log.Printf("Failed to refund withdrawal %s after disbursement failure: %v", reference, refundErr)
		}
		reason := "disbursement initiation failed"
		if err == nil {
			reason = fmt.Sprintf("disbursement initiation failed: %s", result.Message)
		}
		s.fail(payoutID, models.PayoutStatusApproved, reason)
		if err != nil {
			return nil, err
		}
		return nil, utils.NewGatewayError(reason)
	}

	if result.TransID != "" {
		if err := s.payouts.SetProviderTransID(payoutID, result.TransID); err != nil {
			return nil, err
		}
	}
	if _, err := s.payouts.UpdateStatusFrom(payoutID,
		models.PayoutStatusProcessing, []string{models.PayoutStatusApproved}, ""); err != nil {
		return nil, err
	}

	s.notifier.Notify(payout.UserID, "payout_approved",
		fmt.Sprintf("Payout request #%d approved, %d XAF on the way", payoutID, payout.Amount))

	return s.payouts.GetByID(payoutID)
}

func (s *PayoutService) fail(payoutID int64, from, reason string) {
	if _, err := s.payouts.UpdateStatusFrom(payoutID,
		models.PayoutStatusFailed, []string{from}, reason); err != nil {
		log.Printf("Failed to mark payout %d failed: %v", payoutID, err)
	}
}

// Reject is the admin rejection of a pending request. No money moved
// yet, so there is nothing to refund.
func (s *PayoutService) Reject(payoutID int64, reason string) (*models.PayoutRequest, error) {
	rejected, err := s.payouts.UpdateStatusFrom(payoutID,
		models.PayoutStatusRejected, []string{models.PayoutStatusPending}, reason)
	if err != nil {
		return nil, err
	}
	if !rejected {
		return nil, utils.NewConflictError("only pending payout requests can be rejected")
	}

	payout, err := s.payouts.GetByID(payoutID)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(payout.UserID, "payout_rejected",
		fmt.Sprintf("Payout request #%d rejected: %s", payoutID, reason))
	return payout, nil
}

// CancelRequest lets the requesting host withdraw a still-pending
// request
func (s *PayoutService) CancelRequest(payoutID, callerID int64) (*models.PayoutRequest, error) {
	payout, err := s.payouts.GetByID(payoutID)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Payout request")
	}
	if err != nil {
		return nil, err
	}
	if payout.UserID != callerID {
		return nil, utils.NewForbiddenError("only the requesting user can cancel a payout request")
	}

	cancelled, err := s.payouts.UpdateStatusFrom(payoutID,
		models.PayoutStatusCancelled, []string{models.PayoutStatusPending}, "cancelled by requester")
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, utils.NewConflictError("only pending payout requests can be cancelled")
	}
	return s.payouts.GetByID(payoutID)
}

// Get returns a payout request if the caller owns it or is an admin
func (s *PayoutService) Get(payoutID, callerID int64, role string) (*models.PayoutRequest, error) {
	payout, err := s.payouts.GetByID(payoutID)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Payout request")
	}
	if err != nil {
		return nil, err
	}
	if payout.UserID != callerID && role != utils.RoleAdmin {
		return nil, utils.NewForbiddenError("you do not have access to this payout request")
	}
	return payout, nil
}

// List returns a user's payout requests, newest first
func (s *PayoutService) List(userID int64) ([]models.PayoutRequest, error) {
	return s.payouts.ListByUserID(userID)
}
