// handlers/booking_handlers.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbianoutech/roomstay-backend/middleware"
	"github.com/mbianoutech/roomstay-backend/models"
	"github.com/mbianoutech/roomstay-backend/utils"
)

// CreateBooking handles booking creation with payment initiation
func CreateBooking(c *gin.Context) {
	var request models.CreateBookingRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	response, err := handlerServices.BookingService.Create(middleware.UserID(c), &request)
	if err != nil {
		middleware.PaymentsInitiated.WithLabelValues("failed").Inc()
		utils.HandleError(c, err)
		return
	}
	middleware.PaymentsInitiated.WithLabelValues("initiated").Inc()

	c.JSON(http.StatusCreated, response)
}

// GetBooking handles retrieving a single booking
func GetBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidBookingID))
		return
	}

	booking, err := handlerServices.BookingService.Get(bookingID, middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, booking)
}

// CancelBooking handles guest-initiated cancellation
func CancelBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidBookingID))
		return
	}

	var request models.CancelBookingRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	booking, err := handlerServices.BookingService.Cancel(
		bookingID, middleware.UserID(c), middleware.UserRole(c), request.Reason)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, booking)
}

// UpdateBookingStatus handles the host/admin status update
func UpdateBookingStatus(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidBookingID))
		return
	}

	var request models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	booking, err := handlerServices.BookingService.UpdateStatus(
		bookingID, middleware.UserID(c), middleware.UserRole(c), request.Status, request.Reason)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, booking)
}

// ListBookings handles the admin booking overview
func ListBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	bookings, err := handlerServices.BookingService.List(limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"bookings": bookings})
}

// CheckAvailability handles the public availability preview for a property
func CheckAvailability(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Query("propertyId"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.NewBadRequestError("Invalid property ID"))
		return
	}

	checkIn, err := utils.ParseDate(c.Query("checkIn"), "checkIn")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	checkOut, err := utils.ParseDate(c.Query("checkOut"), "checkOut")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := utils.ValidateDateRange(checkIn, checkOut); err != nil {
		utils.HandleError(c, err)
		return
	}

	available, err := handlerServices.BookingService.Availability(propertyID, checkIn, checkOut)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, available)
}

// PreviewBookingFees handles the pricing preview for a prospective stay
func PreviewBookingFees(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Query("propertyId"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.NewBadRequestError("Invalid property ID"))
		return
	}

	guests, _ := strconv.Atoi(c.DefaultQuery("guests", "1"))

	preview, err := handlerServices.BookingService.Preview(
		propertyID, c.Query("checkIn"), c.Query("checkOut"), guests)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, preview)
}
