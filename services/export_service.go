// services/export_service.go
package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mbianoutech/roomstay-backend/models"
)

// ExportService builds Excel workbooks for the admin finance exports
type ExportService struct {
	wallets  *WalletService
	bookings *BookingService
}

// NewExportService creates a new export service
func NewExportService(wallets *WalletService, bookings *BookingService) *ExportService {
	return &ExportService{wallets: wallets, bookings: bookings}
}

// ExportTransactions generates an Excel file of the ledger, newest first
func (s *ExportService) ExportTransactions(limit int) (*excelize.File, string, error) {
	if limit <= 0 || limit > 10000 {
		limit = 1000
	}
	transactions, err := s.wallets.wallets.ListAllTransactions(limit)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list transactions: %v", err)
	}

	f := excelize.NewFile()
	if err := s.createTransactionSheet(f, transactions); err != nil {
		return nil, "", fmt.Errorf("failed to create transaction sheet: %v", err)
	}
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("Transactions_Export_%s.xlsx", time.Now().Format("2006-01-02"))
	return f, filename, nil
}

// ExportBookings generates an Excel file of recent bookings
func (s *ExportService) ExportBookings(limit int) (*excelize.File, string, error) {
	bookings, err := s.bookings.List(limit)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list bookings: %v", err)
	}

	f := excelize.NewFile()
	if err := s.createBookingSheet(f, bookings); err != nil {
		return nil, "", fmt.Errorf("failed to create booking sheet: %v", err)
	}
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("Bookings_Export_%s.xlsx", time.Now().Format("2006-01-02"))
	return f, filename, nil
}

func (s *ExportService) createTransactionSheet(f *excelize.File, transactions []models.Transaction) error {
	sheetName := "Transactions"
	f.NewSheet(sheetName)
	sheetIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIndex)

	headers := []string{"ID", "User ID", "Amount (XAF)", "Type", "Status", "Reference", "Booking ID", "External ID", "Created At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", string(rune('A'+len(headers)-1))), headerStyle)

	for i, t := range transactions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.UserID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), t.Reference)
		if t.BookingID != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), *t.BookingID)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), t.ExternalID)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), t.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	f.SetColWidth(sheetName, "A", "I", 15)
	f.SetColWidth(sheetName, "F", "F", 24)

	return nil
}

func (s *ExportService) createBookingSheet(f *excelize.File, bookings []models.Booking) error {
	sheetName := "Bookings"
	f.NewSheet(sheetName)
	sheetIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIndex)

	headers := []string{"ID", "Property ID", "Guest ID", "Check In", "Check Out", "Base (XAF)", "Guest Fee", "Host Fee", "Total", "Net To Host", "Status", "Payment Status", "Created At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", string(rune('A'+len(headers)-1))), headerStyle)

	for i, b := range bookings {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), b.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.PropertyID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), b.GuestID)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), b.CheckIn.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), b.CheckOut.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), b.BaseAmount)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), b.GuestFee)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), b.HostFee)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), b.TotalPrice)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), b.NetAmount)
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), b.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("L%d", row), b.PaymentStatus)
		f.SetCellValue(sheetName, fmt.Sprintf("M%d", row), b.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	f.SetColWidth(sheetName, "A", "M", 13)

	return nil
}
