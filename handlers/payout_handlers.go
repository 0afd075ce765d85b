// handlers/payout_handlers.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbianoutech/roomstay-backend/middleware"
	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// CreatePayout handles a host's withdrawal request
func CreatePayout(c *gin.Context) {
	var request models.CreatePayoutRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	payout, err := handlerServices.PayoutService.Create(middleware.UserID(c), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	middleware.PayoutsProcessed.WithLabelValues("requested").Inc()

	utils.HandleSuccess(c, payout)
}

// ListPayouts handles listing the caller's payout requests
func ListPayouts(c *gin.Context) {
	payouts, err := handlerServices.PayoutService.List(middleware.UserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"payouts": payouts})
}

// GetPayout handles retrieving a single payout request
func GetPayout(c *gin.Context) {
	payoutID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidPayoutID))
		return
	}

	payout, err := handlerServices.PayoutService.Get(payoutID, middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, payout)
}

// CancelPayout handles the requester withdrawing a pending request
func CancelPayout(c *gin.Context) {
	payoutID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidPayoutID))
		return
	}

	payout, err := handlerServices.PayoutService.CancelRequest(payoutID, middleware.UserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	middleware.PayoutsProcessed.WithLabelValues("cancelled").Inc()

	utils.HandleSuccess(c, payout)
}

// ApprovePayout handles the admin approval, debit and disbursement
func ApprovePayout(c *gin.Context) {
	payoutID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidPayoutID))
		return
	}

	payout, err := handlerServices.PayoutService.Approve(payoutID)
	if err != nil {
		middleware.PayoutsProcessed.WithLabelValues("failed").Inc()
		utils.HandleError(c, err)
		return
	}
	middleware.PayoutsProcessed.WithLabelValues("approved").Inc()

	utils.HandleSuccess(c, payout)
}

// RejectPayout handles the admin rejection of a pending request
func RejectPayout(c *gin.Context) {
	payoutID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidPayoutID))
		return
	}

	var request models.RejectPayoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	payout, err := handlerServices.PayoutService.Reject(payoutID, request.Reason)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	middleware.PayoutsProcessed.WithLabelValues("rejected").Inc()

	utils.HandleSuccess(c, payout)
}
