// handlers/export_handlers.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/mbianoutech/roomstay-backend/utils"
)

// ExportTransactions exports the ledger to Excel
func ExportTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))

	file, filename, err := handlerServices.ExportService.ExportTransactions(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export transactions: " + err.Error()})
		return
	}

	writeExcel(c, file, filename)
}

// ExportBookings exports recent bookings to Excel
func ExportBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "500"))

	file, filename, err := handlerServices.ExportService.ExportBookings(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export bookings: " + err.Error()})
		return
	}

	writeExcel(c, file, filename)
}

// GatewayBalance returns the provider account balance for the
// disbursement scope
func GatewayBalance(c *gin.Context) {
	result, err := handlerServices.GatewayService.Balance()
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, result)
}

func writeExcel(c *gin.Context, file *excelize.File, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file: " + err.Error()})
		return
	}
}
