package providerRepo

import (
	"context"

	"servio/models"
)

// ProviderRepository defines provider data access needed for tier management.
type ProviderRepository interface {
	// GetProfile retrieves a provider's profile including any stored tier state.
	GetProfile(ctx context.Context, id string) (*models.ProviderProfile, error)
	// ReplaceTierState overwrites tier, metrics and assignment time together.
	ReplaceTierState(ctx context.Context, state *models.ProviderTierState) error
	// FindLegacy returns up to limit providers that were never tier-evaluated
	// or still carry the legacy STANDARD value.
	FindLegacy(ctx context.Context, limit int) ([]models.ProviderProfile, error)
	// CountLegacy counts the providers FindLegacy would select.
	CountLegacy(ctx context.Context) (int, error)
}
