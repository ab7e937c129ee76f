package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lizze-booking-server/database"
	"lizze-booking-server/models"
	"lizze-booking-server/services"
)

// RegisterBookingRoutes registers the public booking endpoints
func RegisterBookingRoutes(router *gin.Engine, svc *services.BookingService) {
	router.POST("/create-booking", createBooking(svc))
	router.GET("/booking-success/:reference", bookingSuccess(svc))
	router.GET("/my-bookings", myBookings(svc))
	router.GET("/confirm/:token", confirmBooking(svc))
}

// createBooking handles the booking form submission
func createBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseMultipartForm(10 << 20); err != nil { // 10MB
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data"})
			return
		}

		in := services.SubmitInput{
			Name:          c.PostForm("name"),
			Email:         c.PostForm("email"),
			Service:       c.PostForm("service"),
			CustomDetails: c.PostForm("custom_details"),
			Date:          c.PostForm("date"),
			Fee:           c.PostForm("fee"),
			PaymentMethod: c.PostForm("payment_method"),
		}

		if header, err := c.FormFile("payment_proof"); err == nil && header != nil {
			if !services.ValidateImageFile(header) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid payment proof image"})
				return
			}
			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Could not read payment proof"})
				return
			}
			defer file.Close()
			in.ProofFile = file
			in.ProofFilename = header.Filename
		}

		booking, err := svc.Submit(c.Request.Context(), in)
		if err != nil {
			var ve *services.ValidationError
			if errors.As(err, &ve) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": ve.Message})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create booking"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":   true,
			"message":   "Booking created",
			"reference": booking.Reference,
			"booking":   booking.ToResponse(),
		})
	}
}

// bookingSuccess shows the created booking by its public reference
func bookingSuccess(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := svc.GetByReference(c.Request.Context(), c.Param("reference"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load booking"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking.ToResponse()})
	}
}

// myBookings lists bookings, optionally narrowed to one customer email
func myBookings(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := database.BookingFilter{Email: c.Query("email")}
		bookings, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list bookings"})
			return
		}

		responses := make([]models.BookingResponse, 0, len(bookings))
		for i := range bookings {
			responses = append(responses, bookings[i].ToResponse())
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "bookings": responses})
	}
}

// confirmBooking handles the customer confirmation link
func confirmBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := svc.Confirm(c.Request.Context(), c.Param("token"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to confirm booking"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Booking confirmed and email sent.",
			"reference": booking.Reference,
		})
	}
}
