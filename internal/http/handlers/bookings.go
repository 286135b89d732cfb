package handlers

import (
	"net/http"

	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
	"fieldbook/internal/http/middleware"
	"fieldbook/internal/services"

	"github.com/gin-gonic/gin"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{RequestID: middleware.GetRequestID(c)}
}

type availabilityRequest struct {
	FieldID int64  `json:"field_id"`
	Date    string `json:"date"`
}

// POST /api/booking/availability
func CheckAvailability(c *gin.Context) {
	var req availabilityRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	bookings, err := bookingService(c).Availability(req.FieldID, req.Date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// POST /api/booking/create
func CreateBooking(c *gin.Context) {
	var req services.CreateBookingInput
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService(c).CreateBooking(middleware.GetUserID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "booking created (pending payment)",
		"booking": booking,
	})
}

// GET /api/booking/:id
func GetBooking(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	booking, err := bookingService(c).GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// GET /api/booking lists every booking for admins.
func ListBookings(c *gin.Context) {
	bookings, err := bookingService(c).ListAll()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GET /api/booking/me/all lists the caller's own bookings.
func ListMyBookings(c *gin.Context) {
	bookings, err := bookingService(c).ListByUser(middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GET /api/booking/me/fields lists bookings against the caller's fields.
func ListMyFieldBookings(c *gin.Context) {
	bookings, err := bookingService(c).ListByOwner(middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// PATCH /api/booking/:id
func UpdateBooking(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var patch models.BookingUpdate
	if !BindJSONOrError(c, &patch) {
		return
	}
	booking, err := bookingService(c).Update(id, middleware.GetUserID(c), patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking updated", "booking": booking})
}

// DELETE /api/booking/:id
func DeleteBooking(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := bookingService(c).Delete(id, middleware.GetUserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking deleted"})
}

// GET /api/booking/:id/invoice
func GetBookingInvoice(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	booking, err := bookingService(c).GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	caller := middleware.GetUserID(c)
	if booking.UserID != caller && booking.OwnerID != caller {
		RespondDomainError(c, domain.NotFoundError{Resource: "booking"})
		return
	}

	pdf, filename, err := svc.GenerateInvoice(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
