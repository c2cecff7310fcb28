package tier

import (
	"context"
	"fmt"
	"time"

	"servio/models"
	"servio/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BookingCounter counts bookings by provider and status.
type BookingCounter interface {
	CountByProviderAndStatus(ctx context.Context, providerID string, status models.BookingStatus) (int, error)
}

// PayoutSummer totals a provider's settled payouts.
type PayoutSummer interface {
	SumCompletedPayouts(ctx context.Context, providerID string) (decimal.Decimal, error)
}

// ProviderStore reads provider profiles and owns the tier state write.
type ProviderStore interface {
	GetProfile(ctx context.Context, id string) (*models.ProviderProfile, error)
	ReplaceTierState(ctx context.Context, state *models.ProviderTierState) error
}

// Evaluator derives provider tiers from booking and transaction history.
type Evaluator struct {
	Bookings     BookingCounter
	Transactions PayoutSummer
	Providers    ProviderStore
	Logger       *zap.Logger
	Metrics      *utils.Metrics
	Now          func() time.Time
}

func NewEvaluator(bookings BookingCounter, txs PayoutSummer, providers ProviderStore, logger *zap.Logger, metrics *utils.Metrics) *Evaluator {
	return &Evaluator{
		Bookings:     bookings,
		Transactions: txs,
		Providers:    providers,
		Logger:       logger,
		Metrics:      metrics,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

// Compute gathers metrics and evaluates the tier without writing. The
// profile read is returned so callers can compare against the stored state.
func (e *Evaluator) Compute(ctx context.Context, providerID string) (*models.ProviderTierState, *models.ProviderProfile, error) {
	var (
		profile   *models.ProviderProfile
		completed int
		revenue   decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.Providers.GetProfile(gctx, providerID)
		if err != nil {
			return fmt.Errorf("load provider %s: %w", providerID, err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		n, err := e.Bookings.CountByProviderAndStatus(gctx, providerID, models.BookingCompleted)
		if err != nil {
			return fmt.Errorf("count completed bookings: %w", err)
		}
		completed = n
		return nil
	})
	g.Go(func() error {
		sum, err := e.Transactions.SumCompletedPayouts(gctx, providerID)
		if err != nil {
			return fmt.Errorf("sum provider revenue: %w", err)
		}
		revenue = sum
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	now := e.Now()
	metrics := models.PerformanceMetrics{
		CompletedBookings: completed,
		AverageRating:     profile.Rating,
		TotalRevenue:      revenue,
		AccountAgeMonths:  MonthsBetween(profile.CreatedAt, now),
		IsVerified:        profile.IsVerified(),
	}
	state := models.NewProviderTierState(providerID, EvaluateTier(metrics), metrics, now)
	return state, profile, nil
}

// Recompute evaluates the provider and replaces its stored tier state.
func (e *Evaluator) Recompute(ctx context.Context, providerID string) (*models.ProviderTierState, error) {
	state, profile, err := e.Compute(ctx, providerID)
	if err != nil {
		e.Metrics.ObserveRecompute("", "error")
		return nil, err
	}
	if err := e.Providers.ReplaceTierState(ctx, state); err != nil {
		e.Metrics.ObserveRecompute(string(state.Tier), "error")
		return nil, fmt.Errorf("store tier for provider %s: %w", providerID, err)
	}
	e.Metrics.ObserveRecompute(string(state.Tier), "ok")

	if prev, ok := profile.TierState(); ok && prev.Tier.Rank() > state.Tier.Rank() {
		e.Logger.Warn("provider tier lowered",
			zap.String("providerId", providerID),
			zap.String("from", string(prev.Tier)),
			zap.String("to", string(state.Tier)))
	} else {
		e.Logger.Info("provider tier recomputed",
			zap.String("providerId", providerID),
			zap.String("tier", string(state.Tier)))
	}
	return state, nil
}

// Current returns the stored tier state. evaluated is false when the
// provider has never been through a recompute.
func (e *Evaluator) Current(ctx context.Context, providerID string) (state *models.ProviderTierState, evaluated bool, err error) {
	profile, err := e.Providers.GetProfile(ctx, providerID)
	if err != nil {
		return nil, false, err
	}
	state, evaluated = profile.TierState()
	return state, evaluated, nil
}

// MonthsBetween counts whole calendar months from start to end.
func MonthsBetween(start, end time.Time) int {
	if start.IsZero() || !end.After(start) {
		return 0
	}
	start, end = start.UTC(), end.UTC()
	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	// not yet reached the same point in the final month
	anniversary := start.AddDate(0, months, 0)
	if anniversary.After(end) {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
