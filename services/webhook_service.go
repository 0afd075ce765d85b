// services/webhook_service.go
package services

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// bookingSettlementStore is the booking access the reconciler needs
type bookingSettlementStore interface {
	GetByID(bookingID int64) (*models.Booking, error)
	CancelIfPending(bookingID int64, paymentStatus, reason string) (bool, error)
	UpdatePaymentStatus(bookingID int64, paymentStatus string) error
}

// payoutSettlementStore is the payout access the reconciler needs
type payoutSettlementStore interface {
	GetByTransactionID(transactionID int64) (*models.PayoutRequest, error)
	UpdateStatusFrom(payoutID int64, to string, from []string, reason string) (bool, error)
}

// statusVerifier is the gateway access the reconciler needs
type statusVerifier interface {
	VerifyStatus(transID, serviceType string) (*models.GatewayResult, error)
}

// WebhookService reconciles provider payment callbacks against bookings
// and payouts. Callbacks arrive at-least-once and out of order, so every
// settlement action is gated by a conditional state transition: replays
// and stale callbacks find no row to move and become no-ops.
//
// The callback's externalId carries our correlation key: a booking ID
// for collections, a withdrawal reference for disbursements.
type WebhookService struct {
	bookings     bookingSettlementStore
	payouts      payoutSettlementStore
	wallets      *WalletService
	availability *AvailabilityService
	gateway      statusVerifier
	notifier     Notifier
	verify       bool
}

// NewWebhookService creates a new webhook service. Setting
// WEBHOOK_VERIFY=true re-verifies every callback's status against the
// provider before acting on it.
func NewWebhookService(bookings bookingSettlementStore, payouts payoutSettlementStore, wallets *WalletService, availability *AvailabilityService, gateway statusVerifier, notifier Notifier) *WebhookService {
	return &WebhookService{
		bookings:     bookings,
		payouts:      payouts,
		wallets:      wallets,
		availability: availability,
		gateway:      gateway,
		notifier:     notifier,
		verify:       os.Getenv("WEBHOOK_VERIFY") == "true",
	}
}

// HandleCallback processes one provider callback. Unknown correlation
// targets are logged and dropped: the provider gets its acknowledgment
// either way, and a replay cannot be told apart from junk.
func (s *WebhookService) HandleCallback(payload *models.WebhookPayload) error {
	if bookingID, err := strconv.ParseInt(payload.ExternalID, 10, 64); err == nil {
		booking, err := s.bookings.GetByID(bookingID)
		if err == nil {
			return s.settleBooking(booking, payload)
		}
		if err != sql.ErrNoRows {
			return err
		}
	}

	transaction, err := s.wallets.wallets.GetTransactionByReference(payload.ExternalID)
	if err == nil && transaction.Type == models.TransactionTypeWithdrawal {
		return s.settlePayout(transaction, payload)
	}
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	log.Printf("Webhook callback for unknown target: transId=%s externalId=%s status=%s",
		payload.TransID, payload.ExternalID, payload.Status)
	return nil
}

// verifiedStatus returns the status to act on, re-checked against the
// provider when verification is enabled
func (s *WebhookService) verifiedStatus(payload *models.WebhookPayload, serviceType string) (string, error) {
	if !s.verify {
		return payload.Status, nil
	}

	result, err := s.gateway.VerifyStatus(payload.TransID, serviceType)
	if err != nil {
		return "", err
	}
	if result.Status == models.GatewayStatusNetworkError {
		return "", utils.NewGatewayError("could not verify callback status with the provider")
	}
	if result.Status != payload.Status {
		log.Printf("Webhook status mismatch for %s: callback says %s, provider says %s",
			payload.TransID, payload.Status, result.Status)
	}
	return result.Status, nil
}

func (s *WebhookService) settleBooking(booking *models.Booking, payload *models.WebhookPayload) error {
	status, err := s.verifiedStatus(payload, models.ServiceTypeCollection)
	if err != nil {
		return err
	}

	switch status {
	case models.ProviderStatusSuccessful:
		// Resolve the host before touching any state: a failure here
		// leaves the booking pending, so the provider's next delivery
		// settles it from scratch.
		property, err := s.availability.GetProperty(booking.PropertyID)
		if err != nil {
			return err
		}

		// The confirm and the wallet credits commit together; a replay
		// finds the booking already confirmed and credits nothing.
		confirmed, err := s.wallets.SettleBooking(booking, property.HostID, payload.FinancialTransID)
		if err != nil {
			return err
		}
		if !confirmed {
			log.Printf("Duplicate or stale success callback for booking %d (status %s), skipping",
				booking.ID, booking.Status)
			return nil
		}

		s.notifier.Notify(booking.GuestID, "booking_confirmed",
			fmt.Sprintf("Payment received, booking #%d is confirmed", booking.ID))
		s.notifier.Notify(property.HostID, "booking_paid",
			fmt.Sprintf("Booking #%d paid, %d XAF credited to your wallet", booking.ID, booking.NetAmount))
		return nil

	case models.ProviderStatusFailed, models.ProviderStatusExpired:
		paymentStatus := models.PaymentStatusFailed
		reason := "payment failed"
		if status == models.ProviderStatusExpired {
			paymentStatus = models.PaymentStatusExpired
			reason = "payment expired"
		}
		cancelled, err := s.bookings.CancelIfPending(booking.ID, paymentStatus, reason)
		if err != nil {
			return err
		}
		if cancelled {
			s.notifier.Notify(booking.GuestID, "booking_cancelled",
				fmt.Sprintf("Booking #%d cancelled: %s", booking.ID, reason))
		}
		return nil

	case models.ProviderStatusCreated, models.ProviderStatusPending:
		// Payment still in flight; surface it on the booking but only
		// while it is still awaiting settlement.
		if booking.Status == models.BookingStatusPending {
			return s.bookings.UpdatePaymentStatus(booking.ID, models.PaymentStatusProcessing)
		}
		return nil

	default:
		log.Printf("Webhook with unrecognized status %q for booking %d", status, booking.ID)
		return nil
	}
}

func (s *WebhookService) settlePayout(transaction *models.Transaction, payload *models.WebhookPayload) error {
	status, err := s.verifiedStatus(payload, models.ServiceTypeDisbursement)
	if err != nil {
		return err
	}

	payout, err := s.payouts.GetByTransactionID(transaction.ID)
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	switch status {
	case models.ProviderStatusSuccessful:
		completed, err := s.wallets.wallets.CompleteWithdrawal(transaction.Reference)
		if err != nil {
			return err
		}
		if !completed {
			log.Printf("Duplicate success callback for withdrawal %s, skipping", transaction.Reference)
			return nil
		}
		if payout != nil {
			if _, err := s.payouts.UpdateStatusFrom(payout.ID, models.PayoutStatusCompleted,
				[]string{models.PayoutStatusProcessing, models.PayoutStatusApproved}, ""); err != nil {
				return err
			}
			s.notifier.Notify(payout.UserID, "payout_completed",
				fmt.Sprintf("Payout #%d of %d XAF completed", payout.ID, payout.Amount))
		}
		return nil

	case models.ProviderStatusFailed, models.ProviderStatusExpired:
		refunded, err := s.wallets.wallets.FailWithdrawal(transaction.Reference)
		if err != nil {
			return err
		}
		if !refunded {
			log.Printf("Duplicate failure callback for withdrawal %s, skipping", transaction.Reference)
			return nil
		}
		if payout != nil {
			reason := fmt.Sprintf("disbursement %s at provider", status)
			if _, err := s.payouts.UpdateStatusFrom(payout.ID, models.PayoutStatusFailed,
				[]string{models.PayoutStatusProcessing, models.PayoutStatusApproved}, reason); err != nil {
				return err
			}
			s.notifier.Notify(payout.UserID, "payout_failed",
				fmt.Sprintf("Payout #%d failed, %d XAF returned to your wallet", payout.ID, payout.Amount))
		}
		return nil

	case models.ProviderStatusCreated, models.ProviderStatusPending:
		return nil

	default:
		log.Printf("Webhook with unrecognized status %q for withdrawal %s", status, transaction.Reference)
		return nil
	}
}
