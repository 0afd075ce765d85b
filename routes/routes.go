package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mbianoutech/roomstay-backend/handlers"
	"github.com/mbianoutech/roomstay-backend/middleware"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine) {
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	// Provider callbacks authenticate by payload verification, not caller
	// identity.
	v1.POST("/bookings/webhook/payment", handlers.PaymentWebhook)

	// Public pricing and availability previews
	v1.GET("/bookings/availability", handlers.CheckAvailability)
	v1.GET("/bookings/calculate-fees", handlers.PreviewBookingFees)

	authed := v1.Group("")
	authed.Use(middleware.RequireIdentity())
	{
		// Booking endpoints
		authed.POST("/bookings", handlers.CreateBooking)
		authed.GET("/bookings/:id", handlers.GetBooking)
		authed.PUT("/bookings/:id/cancel", handlers.CancelBooking)
		authed.PUT("/bookings/:id/status", handlers.UpdateBookingStatus)

		// Wallet endpoints
		authed.GET("/wallets/me", handlers.GetWallet)
		authed.GET("/wallets/me/transactions", handlers.GetWalletTransactions)

		// Payout request endpoints
		authed.POST("/payout-requests/request", handlers.CreatePayout)
		authed.GET("/payout-requests", handlers.ListPayouts)
		authed.GET("/payout-requests/:id", handlers.GetPayout)
		authed.POST("/payout-requests/:id/cancel", handlers.CancelPayout)
		authed.POST("/payout-requests/:id/approve",
			middleware.RequireRole(utils.RoleAdmin), handlers.ApprovePayout)
		authed.POST("/payout-requests/:id/reject",
			middleware.RequireRole(utils.RoleAdmin), handlers.RejectPayout)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.RequireIdentity(), middleware.RequireRole(utils.RoleAdmin))
	{
		admin.GET("/bookings", handlers.ListBookings)

		admin.GET("/wallets/:userId/reconcile", handlers.ReconcileWallet)
		admin.GET("/gateway/balance", handlers.GatewayBalance)

		admin.GET("/exports/transactions", handlers.ExportTransactions)
		admin.GET("/exports/bookings", handlers.ExportBookings)
	}
}
