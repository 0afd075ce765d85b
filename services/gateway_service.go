// services/gateway_service.go
package services

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// paymentConfigStore is the credential access the gateway needs
type paymentConfigStore interface {
	GetActive(serviceType, environment string) (*models.PaymentConfig, error)
}

// GatewayService drives the mobile-money provider: guest collections,
// host disbursements and status checks. Collections and disbursements
// use independent credential scopes; an inactive or missing scope is a
// configuration error, never a silent default.
//
// Transport failures (no response from the provider) are reported as a
// normalized NETWORK_ERROR result so callers handle them like any other
// failed attempt.
type GatewayService struct {
	configs     paymentConfigStore
	environment string
	client      *http.Client
}

// NewGatewayService creates a new gateway service. The environment comes
// from GATEWAY_ENV (sandbox by default).
func NewGatewayService(configs paymentConfigStore) *GatewayService {
	environment := os.Getenv("GATEWAY_ENV")
	if environment == "" {
		environment = models.EnvironmentSandbox
	}

	return &GatewayService{
		configs:     configs,
		environment: environment,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type initiateRequest struct {
	Amount     int64  `json:"amount"`
	Phone      string `json:"phone"`
	ExternalID string `json:"externalId"`
	Message    string `json:"message,omitempty"`
}

type providerResponse struct {
	TransID string `json:"transId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// InitializeCollection starts a guest-initiated mobile-money charge.
// The externalId is the booking ID, which the webhook echoes back for
// correlation.
func (s *GatewayService) InitializeCollection(payerPhone string, amount int64, externalID, message string) (*models.GatewayResult, error) {
	return s.initiate(models.ServiceTypeCollection, "/direct-pay", payerPhone, amount, externalID, message)
}

// InitializeDisbursement starts a payout to a host. The externalId is
// the withdrawal transaction's reference.
func (s *GatewayService) InitializeDisbursement(payeePhone string, amount int64, externalID, message string) (*models.GatewayResult, error) {
	return s.initiate(models.ServiceTypeDisbursement, "/payout", payeePhone, amount, externalID, message)
}

func (s *GatewayService) initiate(serviceType, path, phone string, amount int64, externalID, message string) (*models.GatewayResult, error) {
	normalized, err := utils.NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateAmount(amount, "amount"); err != nil {
		return nil, err
	}

	cfg, err := s.activeConfig(serviceType)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(initiateRequest{
		Amount:     amount,
		Phone:      normalized,
		ExternalID: externalID,
		Message:    message,
	})
	if err != nil {
		return nil, utils.NewInternalError("failed to encode gateway request")
	}

	req, err := http.NewRequest("POST", cfg.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, utils.NewInternalError("failed to build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")

	return s.send(req, cfg)
}

// VerifyStatus polls the provider for the current status of a
// transaction. Used to confirm webhook payloads before trusting them.
func (s *GatewayService) VerifyStatus(transID, serviceType string) (*models.GatewayResult, error) {
	cfg, err := s.activeConfig(serviceType)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("GET", fmt.Sprintf("%s/payment-status/%s", cfg.BaseURL, transID), nil)
	if err != nil {
		return nil, utils.NewInternalError("failed to build gateway request")
	}

	return s.send(req, cfg)
}

// Balance returns the provider account balance for the disbursement
// scope
func (s *GatewayService) Balance() (*models.GatewayResult, error) {
	cfg, err := s.activeConfig(models.ServiceTypeDisbursement)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("GET", cfg.BaseURL+"/balance", nil)
	if err != nil {
		return nil, utils.NewInternalError("failed to build gateway request")
	}

	return s.send(req, cfg)
}

func (s *GatewayService) activeConfig(serviceType string) (*models.PaymentConfig, error) {
	cfg, err := s.configs.GetActive(serviceType, s.environment)
	if err == sql.ErrNoRows {
		return nil, utils.NewConfigurationError(
			fmt.Sprintf("no active %s payment configuration for %s", serviceType, s.environment))
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *GatewayService) send(req *http.Request, cfg *models.PaymentConfig) (*models.GatewayResult, error) {
	req.Header.Set("apiuser", cfg.APIUser)
	req.Header.Set("apikey", cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		// No response from the provider; report a uniform failure so the
		// caller can run its compensation path.
		log.Printf("Gateway %s %s failed: %v", req.Method, req.URL.Path, err)
		return &models.GatewayResult{
			Success: false,
			Status:  models.GatewayStatusNetworkError,
			Message: "payment provider unreachable",
		}, nil
	}
	defer resp.Body.Close()

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && resp.StatusCode < 400 {
		return nil, utils.NewGatewayError("failed to decode gateway response")
	}

	result := &models.GatewayResult{
		TransID:    body.TransID,
		Status:     body.Status,
		Message:    body.Message,
		StatusCode: resp.StatusCode,
	}

	if resp.StatusCode >= 400 {
		result.Success = false
		if result.Status == "" {
			result.Status = models.ProviderStatusFailed
		}
		return result, nil
	}

	result.Success = true
	if result.Status == "" {
		result.Status = models.ProviderStatusCreated
	}
	return result, nil
}
