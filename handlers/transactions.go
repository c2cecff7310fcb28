package handlers

import (
	"context"
	"net/http"
	"strings"

	"servio/models"

	"github.com/gin-gonic/gin"
)

type PaymentStatusUpdater interface {
	UpdatePaymentStatus(ctx context.Context, txID string, status models.PaymentStatus) (*models.PaymentTransaction, error)
}

type TransactionHandler struct {
	Payments PaymentStatusUpdater
}

func NewTransactionHandler(p PaymentStatusUpdater) *TransactionHandler {
	return &TransactionHandler{Payments: p}
}

type paymentStatusInput struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

// UpdatePaymentStatus handles PATCH /api/transactions/:id/payment-status. Admin only.
func (h *TransactionHandler) UpdatePaymentStatus(c *gin.Context) {
	var input paymentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	status := models.PaymentStatus(strings.ToUpper(strings.TrimSpace(input.PaymentStatus)))

	tx, err := h.Payments.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": tx})
}
