// handlers/wallet_handlers.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbianoutech/roomstay-backend/middleware"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// GetWallet handles retrieving the caller's wallet
func GetWallet(c *gin.Context) {
	wallet, err := handlerServices.WalletService.GetWallet(middleware.UserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, wallet)
}

// GetWalletTransactions handles retrieving the caller's ledger
func GetWalletTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	transactions, err := handlerServices.WalletService.GetTransactions(middleware.UserID(c), limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"transactions": transactions})
}

// ReconcileWallet handles the admin balance-vs-ledger consistency check
func ReconcileWallet(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.NewBadRequestError("Invalid user ID"))
		return
	}

	reconciliation, err := handlerServices.WalletService.Reconcile(userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, reconciliation)
}
