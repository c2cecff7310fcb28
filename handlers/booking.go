package handlers

import (
	"net/http"
	"strings"

	"servio/models"
	"servio/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

type statusInput struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateStatus handles POST /api/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.Service.Transition(c.Request.Context(), booking.TransitionRequest{
		BookingID: c.Param("id"),
		Status:    models.BookingStatus(strings.ToUpper(strings.TrimSpace(input.Status))),
		Reason:    input.Reason,
		Actor:     actor,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	getLogger(c).Info("booking status updated",
		zap.String("bookingId", updated.ID),
		zap.String("status", string(updated.Status)),
		zap.String("actorId", actor.ID))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": gin.H{
			"id":        updated.ID,
			"status":    updated.Status,
			"updatedAt": updated.UpdatedAt,
		},
	})
}

type rescheduleInput struct {
	NewDate string `json:"newDate" binding:"required"`
	NewTime string `json:"newTime" binding:"required"`
	Reason  string `json:"reason"`
}

// Reschedule handles POST /api/bookings/:id/reschedule.
func (h *BookingHandler) Reschedule(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input rescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.Service.Reschedule(c.Request.Context(), booking.RescheduleRequest{
		BookingID: c.Param("id"),
		NewDate:   input.NewDate,
		NewTime:   input.NewTime,
		Reason:    input.Reason,
		Actor:     actor,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": updated})
}

type noteInput struct {
	Text string `json:"text" binding:"required"`
}

// AddNote handles POST /api/bookings/:id/notes.
func (h *BookingHandler) AddNote(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input noteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.Service.AddProviderNote(c.Request.Context(), c.Param("id"), input.Text, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "notes": updated.ProviderNotes})
}

// Get handles GET /api/bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	b, err := h.Service.Get(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// History handles GET /api/bookings/:id/history.
func (h *BookingHandler) History(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entries, err := h.Service.History(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.BookingAuditEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": c.Param("id"), "history": entries})
}
