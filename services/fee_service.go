package services

import (
	"database/sql"
	"math"

	"github.com/mbianoutech/roomstay-backend/cache"
	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// feeConfigStore is the data access the fee service needs
type feeConfigStore interface {
	GetActive() (*models.FeeConfig, error)
}

// FeeService computes the host/guest service fees and platform revenue
// for a base amount. Calculate is a pure function of its inputs; config
// resolution is the only part that touches storage.
type FeeService struct {
	configs feeConfigStore
	cache   *cache.Cache
}

// NewFeeService creates a new fee service
func NewFeeService(configs feeConfigStore, c *cache.Cache) *FeeService {
	return &FeeService{configs: configs, cache: c}
}

// DefaultFeeConfig returns the fee schedule used when no config row is
// active: 5% host fee, 3% guest fee, no bounds.
func DefaultFeeConfig() *models.FeeConfig {
	return &models.FeeConfig{
		HostFeePercent:  utils.DefaultHostFeePercent,
		GuestFeePercent: utils.DefaultGuestFeePercent,
	}
}

// ActiveConfig resolves the fee schedule to price against: the cached
// active config, the stored active config, or the default schedule.
func (s *FeeService) ActiveConfig() (*models.FeeConfig, error) {
	if cfg, ok := s.cache.GetFeeConfig(); ok {
		return cfg, nil
	}

	cfg, err := s.configs.GetActive()
	if err == sql.ErrNoRows {
		return DefaultFeeConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	s.cache.SetFeeConfig(cfg)
	return cfg, nil
}

// Calculate computes the fee breakdown for a base amount under a config.
// Fees are rounded to whole minor units; percent-of-amount values are
// clamped to the config's optional min/max bounds.
func (s *FeeService) Calculate(baseAmount int64, cfg *models.FeeConfig) (*models.FeeCalculationResult, error) {
	if baseAmount <= 0 {
		return nil, utils.NewValidationError("base amount must be positive")
	}

	hostFee := clampFee(baseAmount, cfg.HostFeePercent, cfg.HostFeeMin, cfg.HostFeeMax)
	guestFee := clampFee(baseAmount, cfg.GuestFeePercent, cfg.GuestFeeMin, cfg.GuestFeeMax)

	return &models.FeeCalculationResult{
		OriginalAmount:   baseAmount,
		HostServiceFee:   hostFee,
		GuestServiceFee:  guestFee,
		TotalGuestPays:   baseAmount + guestFee,
		NetAmountForHost: baseAmount - hostFee,
		PlatformRevenue:  hostFee + guestFee,
	}, nil
}

// Quote resolves the active config and calculates in one step
func (s *FeeService) Quote(baseAmount int64) (*models.FeeCalculationResult, error) {
	cfg, err := s.ActiveConfig()
	if err != nil {
		return nil, err
	}
	return s.Calculate(baseAmount, cfg)
}

func clampFee(baseAmount int64, percent float64, min, max *int64) int64 {
	fee := int64(math.Round(float64(baseAmount) * percent / 100))
	if min != nil && fee < *min {
		fee = *min
	}
	if max != nil && fee > *max {
		fee = *max
	}
	return fee
}
