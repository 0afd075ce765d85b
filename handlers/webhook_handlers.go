// handlers/webhook_handlers.go
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbianoutech/roomstay-backend/middleware"
	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// PaymentWebhook receives the provider's payment-status callbacks. Once
// the payload parses the provider always gets a 200 acknowledgment:
// settlement failures are logged, never surfaced, and the idempotent
// reconciler catches up on the provider's next delivery or on manual
// replay.
func PaymentWebhook(c *gin.Context) {
	var payload models.WebhookPayload

	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}
	middleware.WebhookCallbacks.WithLabelValues(payload.Status).Inc()

	if err := handlerServices.WebhookService.HandleCallback(&payload); err != nil {
		log.Printf("Webhook processing failed for transId=%s: %v", payload.TransID, err)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
