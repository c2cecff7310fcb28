package handlers

import (
	"context"
	"net/http"

	"servio/services/revenue"

	"github.com/gin-gonic/gin"
)

type RevenueReporter interface {
	Report(ctx context.Context, timeframe string) (*revenue.PeriodReport, error)
}

type RevenueHandler struct {
	Reports RevenueReporter
}

func NewRevenueHandler(reports RevenueReporter) *RevenueHandler {
	return &RevenueHandler{Reports: reports}
}

// Revenue handles GET /api/reports/revenue?timeframe=7d|30d|90d|1y. Admin only.
func (h *RevenueHandler) Revenue(c *gin.Context) {
	report, err := h.Reports.Report(c.Request.Context(), c.DefaultQuery("timeframe", "30d"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
