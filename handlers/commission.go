package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"servio/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateTable is the commission table API the handlers need.
type RateTable interface {
	Rates(ctx context.Context) (*models.CommissionConfig, error)
	SetRates(ctx context.Context, newRates map[string]float64, reason string, actor models.Actor) (*models.CommissionConfig, []models.CommissionRateChange, error)
	History(ctx context.Context, tier models.Tier, limit int) ([]models.CommissionRateChange, error)
}

type CommissionHandler struct {
	Table RateTable
}

func NewCommissionHandler(table RateTable) *CommissionHandler {
	return &CommissionHandler{Table: table}
}

// GetRates handles GET /api/commission/rates.
func (h *CommissionHandler) GetRates(c *gin.Context) {
	cfg, err := h.Table.Rates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rates":       cfg.Rates,
		"version":     cfg.Version,
		"lastUpdated": cfg.UpdatedAt,
		"updatedBy":   cfg.UpdatedBy,
	})
}

type setRatesInput struct {
	Rates  map[string]float64 `json:"rates" binding:"required"`
	Reason string             `json:"reason"`
}

// SetRates handles PUT /api/commission/rates. Admin only.
func (h *CommissionHandler) SetRates(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input setRatesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	cfg, changes, err := h.Table.SetRates(c.Request.Context(), input.Rates, input.Reason, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	if changes == nil {
		changes = []models.CommissionRateChange{}
	}

	getLogger(c).Info("commission rates set",
		zap.String("actorId", actor.ID),
		zap.Int("changed", len(changes)))
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"rates":       cfg.Rates,
		"version":     cfg.Version,
		"lastUpdated": cfg.UpdatedAt,
		"updatedBy":   cfg.UpdatedBy,
		"changes":     changes,
	})
}

// History handles GET /api/commission/history?tier=&limit=.
func (h *CommissionHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	tier := models.Tier(strings.ToUpper(strings.TrimSpace(c.Query("tier"))))

	changes, err := h.Table.History(c.Request.Context(), tier, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if changes == nil {
		changes = []models.CommissionRateChange{}
	}
	c.JSON(http.StatusOK, gin.H{"history": changes})
}
