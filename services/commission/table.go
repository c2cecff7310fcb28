package commission

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"servio/models"
	"servio/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MinRate = 5.0
	MaxRate = 50.0
)

// DefaultRates apply when no table was ever configured or a tier is missing from it.
var DefaultRates = map[models.Tier]float64{
	models.TierNew:        20.0,
	models.TierVerified:   18.0,
	models.TierPremium:    15.0,
	models.TierEnterprise: 12.0,
}

// Store persists the rate table and its history.
type Store interface {
	GetConfig(ctx context.Context) (*models.CommissionConfig, error)
	SaveRates(ctx context.Context, cfg *models.CommissionConfig, expectedVersion int64, changes []models.CommissionRateChange) error
	History(ctx context.Context, tier models.Tier, limit int) ([]models.CommissionRateChange, error)
}

// Locker provides a cross-instance mutual exclusion.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// Table resolves and edits the tier to rate mapping.
type Table struct {
	Store  Store
	Locker Locker
	Logger *zap.Logger
	Now    func() time.Time
}

func NewTable(store Store, locker Locker, logger *zap.Logger) *Table {
	return &Table{
		Store:  store,
		Locker: locker,
		Logger: logger,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// Rates returns the effective table: stored rates over the defaults. An
// unconfigured platform reports version 0.
func (t *Table) Rates(ctx context.Context) (*models.CommissionConfig, error) {
	stored, err := t.Store.GetConfig(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return &models.CommissionConfig{Rates: copyRates(DefaultRates), UpdatedBy: "system"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load commission rates: %w", err)
	}
	effective := *stored
	effective.Rates = copyRates(DefaultRates)
	for tier, rate := range stored.Rates {
		effective.Rates[tier] = rate
	}
	return &effective, nil
}

// RateFor returns the percentage charged to providers of tier.
func (t *Table) RateFor(ctx context.Context, tier models.Tier) (float64, error) {
	cfg, err := t.Rates(ctx)
	if err != nil {
		return 0, err
	}
	if rate, ok := cfg.Rates[tier]; ok {
		return rate, nil
	}
	return DefaultRates[models.TierNew], nil
}

// History returns rate changes newest first.
func (t *Table) History(ctx context.Context, tier models.Tier, limit int) ([]models.CommissionRateChange, error) {
	if tier != "" && !tier.IsValid() {
		return nil, &InvalidRateError{Tier: string(tier), Reason: "unknown tier"}
	}
	return t.Store.History(ctx, tier, limit)
}

// SetRates validates newRates, merges them over the current table and
// records one history entry per tier whose rate changed. Nothing is written
// when no rate changes.
func (t *Table) SetRates(ctx context.Context, newRates map[string]float64, reason string, actor models.Actor) (*models.CommissionConfig, []models.CommissionRateChange, error) {
	parsed, err := validateRates(newRates)
	if err != nil {
		return nil, nil, err
	}

	release, err := t.Locker.Obtain(ctx, utils.CommissionLockKey, utils.CommissionLockTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("commission rates are being updated: %w", err)
	}
	defer release()

	current, err := t.Rates(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := t.Now()
	var changes []models.CommissionRateChange
	for _, tier := range models.Tiers {
		rate, ok := parsed[tier]
		if !ok || current.Rates[tier] == rate {
			continue
		}
		changes = append(changes, models.CommissionRateChange{
			ID:        uuid.New().String(),
			Tier:      tier,
			OldRate:   current.Rates[tier],
			NewRate:   rate,
			ChangedBy: actor.ID,
			ChangedAt: now,
			Reason:    reason,
		})
	}
	if len(changes) == 0 {
		return current, nil, nil
	}

	next := &models.CommissionConfig{
		Rates:     copyRates(current.Rates),
		Version:   current.Version + 1,
		UpdatedAt: now,
		UpdatedBy: actor.ID,
		Reason:    reason,
	}
	for _, c := range changes {
		next.Rates[c.Tier] = c.NewRate
	}

	if err := t.Store.SaveRates(ctx, next, current.Version, changes); err != nil {
		return nil, nil, fmt.Errorf("save commission rates: %w", err)
	}

	t.Logger.Info("commission rates updated",
		zap.String("updatedBy", actor.ID),
		zap.Int64("version", next.Version),
		zap.Int("changed", len(changes)))
	return next, changes, nil
}

func validateRates(in map[string]float64) (map[models.Tier]float64, error) {
	if len(in) == 0 {
		return nil, &InvalidRateError{Reason: "no rates supplied"}
	}
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[models.Tier]float64, len(in))
	for _, k := range keys {
		rate := in[k]
		tier := models.Tier(strings.ToUpper(strings.TrimSpace(k)))
		if !tier.IsValid() {
			return nil, &InvalidRateError{Tier: k, Rate: rate, Reason: "unknown tier"}
		}
		if math.IsNaN(rate) || rate < MinRate || rate > MaxRate {
			return nil, &InvalidRateError{Tier: k, Rate: rate, Reason: fmt.Sprintf("must be between %v and %v", MinRate, MaxRate)}
		}
		out[tier] = rate
	}
	return out, nil
}

func copyRates(in map[models.Tier]float64) map[models.Tier]float64 {
	out := make(map[models.Tier]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
