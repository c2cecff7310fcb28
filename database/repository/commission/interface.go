package commissionRepo

import (
	"context"

	"servio/models"
)

// CommissionRepository stores the singleton rate table and its append-only history.
type CommissionRepository interface {
	// GetConfig returns the stored table, or models.ErrNotFound when rates were
	// never configured.
	GetConfig(ctx context.Context) (*models.CommissionConfig, error)
	// SaveRates writes cfg if the stored version still equals expectedVersion
	// and appends changes in the same transaction. cfg.Version must already be
	// the new version. A version mismatch returns models.ErrConcurrentModification.
	SaveRates(ctx context.Context, cfg *models.CommissionConfig, expectedVersion int64, changes []models.CommissionRateChange) error
	// History returns rate changes newest first, optionally for one tier.
	History(ctx context.Context, tier models.Tier, limit int) ([]models.CommissionRateChange, error)
}
