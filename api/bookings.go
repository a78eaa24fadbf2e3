package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pvaldes/travelbooking/internal/apperr"
	"github.com/pvaldes/travelbooking/internal/domain"
	"github.com/pvaldes/travelbooking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
	auth    *AuthMiddleware
}

func NewBookingHandler(service booking.BookingUseCase, auth *AuthMiddleware) *BookingHandler {
	return &BookingHandler{service: service, auth: auth}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	authenticated := h.auth.Authenticate()

	router.POST("/bookings", authenticated, RequireUser(), h.create)
	router.GET("/bookings", authenticated, RequireUser(), h.list)
	router.DELETE("/bookings/:id", authenticated, RequireUser(), h.cancel)
	router.GET("/bookings/report", authenticated, RequireAdmin(), h.report)
}

func (h *BookingHandler) create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication context missing"})
		return
	}

	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req, user)
	if err != nil {
		// An unreachable catalog blocks the write the same way a missing
		// package does: without a positive existence check there is no
		// booking.
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrDependencyUnavailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully",
		"booking": created,
	})
}

func (h *BookingHandler) list(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication context missing"})
		return
	}

	bookings, err := h.service.ListUserBookings(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication context missing"})
		return
	}

	_, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), user.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found or not authorized"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}

func (h *BookingHandler) report(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	report, err := h.service.Report(c.Request.Context(), startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}
	if report == nil {
		report = []domain.ReportRow{}
	}

	c.JSON(http.StatusOK, gin.H{
		"report": report,
		"period": gin.H{
			"start_date": startDate,
			"end_date":   endDate,
		},
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}
