package handlers

import (
	"context"
	"net/http"

	"servio/services/tier"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TierMigrator backfills tier data on legacy provider records.
type TierMigrator interface {
	MigrateLegacyProviders(ctx context.Context) (*tier.MigrationReport, error)
	PendingCount(ctx context.Context) (int, error)
}

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Migrator TierMigrator
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(m TierMigrator) *AdminHandler {
	return &AdminHandler{Migrator: m}
}

// MigrateProviderTiers handles POST /api/admin/migrate-provider-tiers.
// Per-record failures are reported in the body; the request still succeeds.
func (ah *AdminHandler) MigrateProviderTiers(c *gin.Context) {
	report, err := ah.Migrator.MigrateLegacyProviders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("provider tier migration finished",
		zap.Int("total", report.Total),
		zap.Int("migrated", report.Migrated),
		zap.Int("errors", len(report.Errors)))
	c.JSON(http.StatusOK, gin.H{"success": true, "results": report})
}

// PendingProviderTiers handles GET /api/admin/migrate-provider-tiers.
func (ah *AdminHandler) PendingProviderTiers(c *gin.Context) {
	n, err := ah.Migrator.PendingCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": n, "migrationNeeded": n > 0})
}
