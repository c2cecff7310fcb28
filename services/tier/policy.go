package tier

import (
	"servio/models"

	"github.com/shopspring/decimal"
)

// Thresholds are the minimum metrics a provider needs to hold a tier.
type Thresholds struct {
	MinCompletedBookings int             `json:"minCompletedBookings"`
	MinAverageRating     float64         `json:"minAverageRating"`
	MinTotalRevenue      decimal.Decimal `json:"minTotalRevenue"`
	RequiresVerification bool            `json:"requiresVerification"`
}

// ordered highest first; NEW has no entry and is the fallback.
var policy = []struct {
	tier models.Tier
	min  Thresholds
}{
	{models.TierEnterprise, Thresholds{100, 4.8, decimal.NewFromInt(20000), true}},
	{models.TierPremium, Thresholds{50, 4.5, decimal.NewFromInt(10000), true}},
	{models.TierVerified, Thresholds{10, 4.0, decimal.Zero, true}},
}

// Meets reports whether m satisfies every threshold.
func (t Thresholds) Meets(m models.PerformanceMetrics) bool {
	if t.RequiresVerification && !m.IsVerified {
		return false
	}
	return m.CompletedBookings >= t.MinCompletedBookings &&
		m.AverageRating >= t.MinAverageRating &&
		m.TotalRevenue.GreaterThanOrEqual(t.MinTotalRevenue)
}

// EvaluateTier returns the highest tier whose thresholds m meets.
func EvaluateTier(m models.PerformanceMetrics) models.Tier {
	for _, p := range policy {
		if p.min.Meets(m) {
			return p.tier
		}
	}
	return models.TierNew
}

// ThresholdsFor returns the requirements for tier. NEW has none.
func ThresholdsFor(tier models.Tier) (Thresholds, bool) {
	for _, p := range policy {
		if p.tier == tier {
			return p.min, true
		}
	}
	return Thresholds{}, false
}

// NextTier returns the tier above t, or false when t is the top tier.
func NextTier(t models.Tier) (models.Tier, bool) {
	r := t.Rank()
	if r < 0 || r+1 >= len(models.Tiers) {
		return "", false
	}
	return models.Tiers[r+1], true
}
