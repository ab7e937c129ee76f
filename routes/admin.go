package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lizze-booking-server/database"
	"lizze-booking-server/middleware"
	"lizze-booking-server/models"
	"lizze-booking-server/services"
	"lizze-booking-server/utils"
)

// AdminAuthMiddleware guards the administrative surface with a staff JWT
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Remove "Bearer " prefix
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := utils.VerifyToken(token)
		if err != nil {
			log.Printf("❌ Token verification failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		var staff models.StaffUser
		if err := database.DB.First(&staff, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Staff user not found"})
			c.Abort()
			return
		}
		if !staff.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
			c.Abort()
			return
		}

		c.Set("staff_id", staff.ID)
		c.Set("staff", staff)
		c.Next()
	}
}

// AdminLogin handles staff login
func AdminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var staff models.StaffUser
	if err := database.DB.Where("email = ?", req.Email).First(&staff).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !staff.IsActive || !utils.CheckPassword(req.Password, staff.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(staff.ID)
	if err != nil {
		log.Printf("❌ Failed to generate token for staff %d: %v", staff.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"staff":   staff,
	})
}

// RegisterAdminRoutes registers the administrative review surface
func RegisterAdminRoutes(rg *gin.RouterGroup, svc *services.BookingService) {
	admin := rg.Group("/admin")
	admin.POST("/login", middleware.AuthRateLimitMiddleware(), AdminLogin)

	protected := admin.Group("/")
	protected.Use(AdminAuthMiddleware())
	{
		protected.GET("/bookings", listBookings(svc))
		protected.GET("/bookings/:id", getBooking(svc))
		protected.PUT("/bookings/:id", reviewBooking(svc))
		protected.POST("/bookings/:id/resend", resendReceipt(svc))

		// Bulk actions live under /actions so the static segments don't
		// collide with the :id wildcard in gin's routing tree.
		protected.POST("/actions/mark-verified", bulkMarkVerified(svc))
		protected.POST("/actions/resend-confirmation", bulkResendReceipts(svc))
	}
}

// listBookings lists/filters/searches bookings for the review screen
func listBookings(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := database.BookingFilter{
			Service: c.Query("service"),
			Search:  c.Query("search"),
		}
		if v := c.Query("paid"); v != "" {
			paid := v == "true"
			filter.Paid = &paid
		}
		if v := c.Query("payment_verified"); v != "" {
			verified := v == "true"
			filter.PaymentVerified = &verified
		}
		if v := c.Query("date"); v != "" {
			date, err := time.Parse("2006-01-02", v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid date filter, expected YYYY-MM-DD"})
				return
			}
			filter.Date = &date
		}

		bookings, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list bookings"})
			return
		}

		responses := make([]models.BookingResponse, 0, len(bookings))
		for i := range bookings {
			responses = append(responses, bookings[i].ToResponse())
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(responses), "bookings": responses})
	}
}

func getBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		booking, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking.ToResponse()})
	}
}

// reviewBooking applies a staff update: paid / payment_verified /
// verification_notes fields plus an optional verification slip upload. The
// response reports whether the one-shot verification receipt went out.
func reviewBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := c.Request.ParseMultipartForm(10 << 20); err != nil { // 10MB
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid form data"})
			return
		}

		var in services.ReviewInput
		if v, present := c.GetPostForm("paid"); present {
			paid := v == "true"
			in.Paid = &paid
		}
		if v, present := c.GetPostForm("payment_verified"); present {
			verified := v == "true"
			in.PaymentVerified = &verified
		}
		if v, present := c.GetPostForm("verification_notes"); present {
			in.VerificationNotes = &v
		}

		if header, err := c.FormFile("verification_slip"); err == nil && header != nil {
			if !services.ValidateImageFile(header) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid verification slip image"})
				return
			}
			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Could not read verification slip"})
				return
			}
			defer file.Close()
			in.SlipFile = file
			in.SlipFilename = header.Filename
		}

		result, err := svc.Review(c.Request.Context(), id, in)
		if err != nil {
			respondBookingError(c, err)
			return
		}

		message := "Booking updated"
		if result.ReceiptSent {
			message = "Booking updated and verification receipt sent"
		} else if !result.Eligible {
			message = "Booking updated; not eligible for verification receipt (check paid, verified, and slip)"
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      message,
			"eligible":     result.Eligible,
			"receipt_sent": result.ReceiptSent,
			"booking":      result.Booking.ToResponse(),
		})
	}
}

func resendReceipt(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := svc.ResendReceipt(c.Request.Context(), id); err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification receipt sent"})
	}
}

type bulkRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// bulkMarkVerified sets payment_verified for the selected bookings, without
// triggering the receipt email
func bulkMarkVerified(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		updated, err := svc.BulkMarkVerified(c.Request.Context(), req.IDs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to mark bookings verified"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
	}
}

// bulkResendReceipts re-sends the verification receipt per selected booking,
// reporting an aggregate count plus per-failure reasons
func bulkResendReceipts(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		report := svc.BulkResendReceipts(c.Request.Context(), req.IDs)
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"sent":     report.Sent,
			"failures": report.Failures,
		})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid booking id"})
		return 0, false
	}
	return uint(id), true
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking not found"})
	case errors.Is(err, services.ErrNotEligible):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": services.ErrNotEligible.Error()})
	default:
		log.Printf("❌ Booking operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal error"})
	}
}
