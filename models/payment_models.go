package models

import (
	"time"
)

// Gateway service types. A collection moves money from a guest to the
// platform; a disbursement moves money from the platform to a host.
const (
	ServiceTypeCollection   = "collection"
	ServiceTypeDisbursement = "disbursement"
)

// Gateway environments
const (
	EnvironmentSandbox    = "sandbox"
	EnvironmentProduction = "production"
)

// Provider transaction statuses as reported by the payment webhook
const (
	ProviderStatusCreated    = "CREATED"
	ProviderStatusPending    = "PENDING"
	ProviderStatusSuccessful = "SUCCESSFUL"
	ProviderStatusFailed     = "FAILED"
	ProviderStatusExpired    = "EXPIRED"
)

// FeeConfig is a versioned fee schedule. Configs are never mutated once
// superseded; a new row is created and activated instead.
type FeeConfig struct {
	ID              int64     `json:"id"`
	HostFeePercent  float64   `json:"hostFeePercent"`
	GuestFeePercent float64   `json:"guestFeePercent"`
	HostFeeMin      *int64    `json:"hostFeeMin,omitempty"`
	HostFeeMax      *int64    `json:"hostFeeMax,omitempty"`
	GuestFeeMin     *int64    `json:"guestFeeMin,omitempty"`
	GuestFeeMax     *int64    `json:"guestFeeMax,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FeeCalculationResult is the derived pricing breakdown for a base amount.
type FeeCalculationResult struct {
	OriginalAmount   int64 `json:"originalAmount"`
	HostServiceFee   int64 `json:"hostServiceFee"`
	GuestServiceFee  int64 `json:"guestServiceFee"`
	TotalGuestPays   int64 `json:"totalGuestPays"`
	NetAmountForHost int64 `json:"netAmountForHost"`
	PlatformRevenue  int64 `json:"platformRevenue"`
}

// PaymentConfig holds one credential set for the payment provider, scoped
// by service type and environment. Exactly one active row per pair.
type PaymentConfig struct {
	ID          int64     `json:"id"`
	ServiceType string    `json:"serviceType"`
	Environment string    `json:"environment"`
	BaseURL     string    `json:"baseUrl"`
	APIUser     string    `json:"-"`
	APIKey      string    `json:"-"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GatewayResult is the normalized outcome of a provider call. Transport
// failures are reported as Success=false with Status=NETWORK_ERROR rather
// than as an error, so callers handle provider and network failures the
// same way.
type GatewayResult struct {
	Success    bool   `json:"success"`
	TransID    string `json:"transId,omitempty"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// GatewayStatusNetworkError marks a provider call that got no response.
const GatewayStatusNetworkError = "NETWORK_ERROR"

// WebhookPayload is the provider's payment-status callback body.
type WebhookPayload struct {
	TransID          string `json:"transId" binding:"required"`
	Status           string `json:"status" binding:"required"`
	ExternalID       string `json:"externalId"`
	Amount           int64  `json:"amount"`
	FinancialTransID string `json:"financialTransId"`
	Medium           string `json:"medium"`
	PayerName        string `json:"payerName"`
}

// FeePreviewResponse is the response for the fee-calculation preview.
type FeePreviewResponse struct {
	PropertyID int64                 `json:"propertyId"`
	Nights     int                   `json:"nights"`
	Available  bool                  `json:"available"`
	Fees       *FeeCalculationResult `json:"fees"`
}
