package tier

import (
	"testing"

	"servio/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func metrics(completed int, rating float64, revenue int64, verified bool) models.PerformanceMetrics {
	return models.PerformanceMetrics{
		CompletedBookings: completed,
		AverageRating:     rating,
		TotalRevenue:      decimal.NewFromInt(revenue),
		IsVerified:        verified,
	}
}

func TestEvaluateTier(t *testing.T) {
	tests := []struct {
		name string
		m    models.PerformanceMetrics
		want models.Tier
	}{
		{"verified fails premium revenue", metrics(12, 4.2, 500, true), models.TierVerified},
		{"enterprise", metrics(100, 4.8, 20000, true), models.TierEnterprise},
		{"enterprise well above", metrics(500, 5.0, 1000000, true), models.TierEnterprise},
		{"premium", metrics(50, 4.5, 10000, true), models.TierPremium},
		{"premium rating short of enterprise", metrics(150, 4.7, 50000, true), models.TierPremium},
		{"unverified top metrics", metrics(500, 5.0, 1000000, false), models.TierNew},
		{"too few bookings", metrics(9, 4.9, 100000, true), models.TierNew},
		{"low rating", metrics(20, 3.9, 100000, true), models.TierNew},
		{"zero", models.PerformanceMetrics{}, models.TierNew},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EvaluateTier(tc.m))
		})
	}
}

func TestEvaluateTierDeterministic(t *testing.T) {
	m := metrics(73, 4.6, 15000, true)
	first := EvaluateTier(m)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, EvaluateTier(m))
	}
}

func TestEnterpriseNeverAssignedLower(t *testing.T) {
	for completed := 100; completed <= 400; completed += 50 {
		for _, rating := range []float64{4.8, 4.9, 5.0} {
			for _, revenue := range []int64{20000, 20001, 75000} {
				m := metrics(completed, rating, revenue, true)
				assert.Equal(t, models.TierEnterprise, EvaluateTier(m))
			}
		}
	}
}

func TestThresholdsAndNextTier(t *testing.T) {
	next, ok := NextTier(models.TierNew)
	assert.True(t, ok)
	assert.Equal(t, models.TierVerified, next)

	_, ok = NextTier(models.TierEnterprise)
	assert.False(t, ok)

	th, ok := ThresholdsFor(models.TierPremium)
	assert.True(t, ok)
	assert.Equal(t, 50, th.MinCompletedBookings)
	assert.True(t, th.MinTotalRevenue.Equal(decimal.NewFromInt(10000)))

	_, ok = ThresholdsFor(models.TierNew)
	assert.False(t, ok)
}
