package tier

import (
	"context"
	"fmt"

	"servio/models"
	"servio/utils"

	"go.uber.org/zap"
)

// LegacyFinder selects providers that still need a tier backfill.
type LegacyFinder interface {
	FindLegacy(ctx context.Context, limit int) ([]models.ProviderProfile, error)
	CountLegacy(ctx context.Context) (int, error)
}

// MigrationError identifies one provider that failed to migrate.
type MigrationError struct {
	ProviderID string `json:"providerId"`
	Error      string `json:"error"`
}

// MigrationReport summarises a run. Errors is never nil.
type MigrationReport struct {
	Total    int              `json:"total"`
	Migrated int              `json:"migrated"`
	Errors   []MigrationError `json:"errors"`
}

// MigrationRunner backfills tier state for legacy provider records.
type MigrationRunner struct {
	Evaluator *Evaluator
	Legacy    LegacyFinder
	Logger    *zap.Logger
	Metrics   *utils.Metrics
}

func NewMigrationRunner(ev *Evaluator, legacy LegacyFinder, logger *zap.Logger, metrics *utils.Metrics) *MigrationRunner {
	return &MigrationRunner{Evaluator: ev, Legacy: legacy, Logger: logger, Metrics: metrics}
}

// MigrateLegacyProviders recomputes every selected provider. A failing record
// is logged and reported; it never stops the batch. Only a failure to select
// candidates is returned as an error.
func (m *MigrationRunner) MigrateLegacyProviders(ctx context.Context) (*MigrationReport, error) {
	candidates, err := m.Legacy.FindLegacy(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("select legacy providers: %w", err)
	}

	report := &MigrationReport{Total: len(candidates), Errors: []MigrationError{}}
	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, MigrationError{ProviderID: p.ID, Error: err.Error()})
			m.Metrics.ObserveMigrationRecord("error")
			continue
		}
		if _, err := m.Evaluator.Recompute(ctx, p.ID); err != nil {
			m.Logger.Error("tier migration failed for provider",
				zap.String("providerId", p.ID), zap.Error(err))
			report.Errors = append(report.Errors, MigrationError{ProviderID: p.ID, Error: err.Error()})
			m.Metrics.ObserveMigrationRecord("error")
			continue
		}
		report.Migrated++
		m.Metrics.ObserveMigrationRecord("migrated")
	}

	m.Logger.Info("tier migration finished",
		zap.Int("total", report.Total),
		zap.Int("migrated", report.Migrated),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

// PendingCount reports how many providers still need migration.
func (m *MigrationRunner) PendingCount(ctx context.Context) (int, error) {
	n, err := m.Legacy.CountLegacy(ctx)
	if err != nil {
		return 0, fmt.Errorf("count legacy providers: %w", err)
	}
	return n, nil
}
