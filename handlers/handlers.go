// handlers/handlers.go
package handlers

import (
	"database/sql"

	"github.com/mbianoutech/roomstay-backend/cache"
	"github.com/mbianoutech/roomstay-backend/repository"
	"github.com/mbianoutech/roomstay-backend/services"
)

// HandlerServices contains all service dependencies
type HandlerServices struct {
	BookingService *services.BookingService
	WalletService  *services.WalletService
	PayoutService  *services.PayoutService
	WebhookService *services.WebhookService
	GatewayService *services.GatewayService
	ExportService  *services.ExportService
}

// NewHandlerServices wires repositories and services against the given
// database and cache
func NewHandlerServices(db *sql.DB, c *cache.Cache) *HandlerServices {
	bookingRepo := repository.NewBookingRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	feeConfigRepo := repository.NewFeeConfigRepository(db)
	paymentConfigRepo := repository.NewPaymentConfigRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)

	notifier := services.NewLogNotifier()
	gatewayService := services.NewGatewayService(paymentConfigRepo)
	feeService := services.NewFeeService(feeConfigRepo, c)
	availabilityService := services.NewAvailabilityService(bookingRepo, propertyRepo, c)
	bookingService := services.NewBookingService(bookingRepo, availabilityService, feeService, gatewayService, notifier)
	walletService := services.NewWalletService(walletRepo)
	payoutService := services.NewPayoutService(payoutRepo, walletRepo, gatewayService, notifier)
	webhookService := services.NewWebhookService(bookingRepo, payoutRepo, walletService, availabilityService, gatewayService, notifier)
	exportService := services.NewExportService(walletService, bookingService)

	return &HandlerServices{
		BookingService: bookingService,
		WalletService:  walletService,
		PayoutService:  payoutService,
		WebhookService: webhookService,
		GatewayService: gatewayService,
		ExportService:  exportService,
	}
}

var handlerServices *HandlerServices

// InitHandlers initializes the handler services
func InitHandlers(db *sql.DB, c *cache.Cache) {
	handlerServices = NewHandlerServices(db, c)
}

// InitHandlersWith installs pre-built services, used by tests
func InitHandlersWith(hs *HandlerServices) {
	handlerServices = hs
}
