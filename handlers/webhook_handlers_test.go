package handlers

import (
	"bytes"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/services"
)

// downBookingStore simulates a database outage during callback handling.
type downBookingStore struct{}

func (downBookingStore) GetByID(bookingID int64) (*models.Booking, error) {
	return nil, errors.New("connection refused")
}

func (downBookingStore) CancelIfPending(bookingID int64, paymentStatus, reason string) (bool, error) {
	return false, errors.New("connection refused")
}

func (downBookingStore) UpdatePaymentStatus(bookingID int64, paymentStatus string) error {
	return errors.New("connection refused")
}

type emptyPayoutStore struct{}

func (emptyPayoutStore) GetByTransactionID(transactionID int64) (*models.PayoutRequest, error) {
	return nil, sql.ErrNoRows
}

func (emptyPayoutStore) UpdateStatusFrom(payoutID int64, to string, from []string, reason string) (bool, error) {
	return false, nil
}

type emptyWalletStore struct{}

func (emptyWalletStore) GetOrCreate(userID int64) (*models.Wallet, error) {
	return &models.Wallet{UserID: userID}, nil
}

func (emptyWalletStore) GetByUserID(userID int64) (*models.Wallet, error) {
	return nil, sql.ErrNoRows
}

func (emptyWalletStore) Credit(entry models.LedgerEntry) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (emptyWalletStore) SettleBookingPayment(bookingID int64, financialTransID string, entries []models.LedgerEntry) (bool, error) {
	return false, nil
}

func (emptyWalletStore) DebitForWithdrawal(entry models.LedgerEntry) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (emptyWalletStore) CompleteWithdrawal(reference string) (bool, error) { return false, nil }

func (emptyWalletStore) FailWithdrawal(reference string) (bool, error) { return false, nil }

func (emptyWalletStore) GetTransactionByReference(reference string) (*models.Transaction, error) {
	return nil, sql.ErrNoRows
}

func (emptyWalletStore) GetTransactionsByUserID(userID int64, limit int) ([]models.Transaction, error) {
	return nil, nil
}

func (emptyWalletStore) ListAllTransactions(limit int) ([]models.Transaction, error) {
	return nil, nil
}

func (emptyWalletStore) SumByStatus(userID int64, status string) (int64, error) { return 0, nil }

type emptyConflictStore struct{}

func (emptyConflictStore) FindConflicts(propertyID int64, checkIn, checkOut time.Time) ([]models.Booking, error) {
	return nil, nil
}

type emptyPropertyStore struct{}

func (emptyPropertyStore) GetByID(propertyID int64) (*models.Property, error) {
	return nil, sql.ErrNoRows
}

type idleGateway struct{}

func (idleGateway) VerifyStatus(transID, serviceType string) (*models.GatewayResult, error) {
	return &models.GatewayResult{}, nil
}

func webhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	availability := services.NewAvailabilityService(emptyConflictStore{}, emptyPropertyStore{}, nil)
	wallets := services.NewWalletService(emptyWalletStore{})
	webhooks := services.NewWebhookService(
		downBookingStore{}, emptyPayoutStore{}, wallets, availability, idleGateway{}, services.NewLogNotifier())
	InitHandlersWith(&HandlerServices{WebhookService: webhooks})

	router := gin.New()
	router.POST("/api/v1/bookings/webhook/payment", PaymentWebhook)
	return router
}

func postWebhook(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/webhook/payment",
		bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestPaymentWebhook_AcknowledgesDespiteProcessingFailure(t *testing.T) {
	router := webhookRouter()

	// The booking store is down, so handling fails internally. The
	// provider must still get a 200: a 5xx makes it retry forever while
	// our side can already replay from its own records.
	w := postWebhook(router, `{"transId":"T1","status":"SUCCESSFUL","externalId":"10","financialTransId":"FIN9"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
}

func TestPaymentWebhook_RejectsUnparseablePayload(t *testing.T) {
	router := webhookRouter()

	w := postWebhook(router, `{"transId":1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
