package handlers

import (
	"context"
	"net/http"

	"servio/models"
	"servio/services/tier"

	"github.com/gin-gonic/gin"
)

// TierService reads and refreshes provider tiers.
type TierService interface {
	Current(ctx context.Context, providerID string) (*models.ProviderTierState, bool, error)
	Compute(ctx context.Context, providerID string) (*models.ProviderTierState, *models.ProviderProfile, error)
	Recompute(ctx context.Context, providerID string) (*models.ProviderTierState, error)
}

type TierHandler struct {
	Tiers TierService
}

func NewTierHandler(tiers TierService) *TierHandler {
	return &TierHandler{Tiers: tiers}
}

// providers see their own tier; admins see any
func canViewTier(actor models.Actor, providerID string) bool {
	return actor.IsAdmin() || (actor.Role == models.RoleProvider && actor.ID == providerID)
}

func tierResponse(state *models.ProviderTierState, evaluated bool) gin.H {
	resp := gin.H{
		"providerId":         state.ProviderID,
		"tier":               state.Tier,
		"performanceMetrics": state.Metrics,
		"tierAssignedAt":     state.TierAssignedAt,
		"evaluated":          evaluated,
	}
	if next, ok := tier.NextTier(state.Tier); ok {
		req, _ := tier.ThresholdsFor(next)
		resp["nextTier"] = gin.H{"tier": next, "requirements": req}
	}
	return resp
}

// GetTier handles GET /api/providers/:id/tier. Providers that were never
// evaluated get a preview computed from live data, not stored.
func (h *TierHandler) GetTier(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !canViewTier(actor, id) {
		respondError(c, models.ErrForbidden)
		return
	}

	state, evaluated, err := h.Tiers.Current(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !evaluated {
		state, _, err = h.Tiers.Compute(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, tierResponse(state, evaluated))
}

// Recompute handles POST /api/providers/:id/tier/recompute.
func (h *TierHandler) Recompute(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !canViewTier(actor, id) {
		respondError(c, models.ErrForbidden)
		return
	}

	state, err := h.Tiers.Recompute(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tierResponse(state, true))
}
