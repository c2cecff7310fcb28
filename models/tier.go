package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tier classifies a provider and drives its commission rate.
type Tier string

const (
	TierNew        Tier = "NEW"
	TierVerified   Tier = "VERIFIED"
	TierPremium    Tier = "PREMIUM"
	TierEnterprise Tier = "ENTERPRISE"

	// legacyTierStandard was written by older provider signup flows.
	legacyTierStandard = "STANDARD"
)

// Tiers lists every tier from lowest to highest.
var Tiers = []Tier{TierNew, TierVerified, TierPremium, TierEnterprise}

// Rank orders tiers; higher is better. Unknown tiers rank below NEW.
func (t Tier) Rank() int {
	for i, known := range Tiers {
		if t == known {
			return i
		}
	}
	return -1
}

// IsValid reports whether t is one of the four known tiers.
func (t Tier) IsValid() bool { return t.Rank() >= 0 }

// ParseTier normalises stored tier values. Empty and legacy "STANDARD" map to NEW.
func ParseTier(raw string) (Tier, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" || v == legacyTierStandard {
		return TierNew, nil
	}
	t := Tier(v)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown tier %q", raw)
	}
	return t, nil
}

// PerformanceMetrics are the aggregates a tier is computed from.
type PerformanceMetrics struct {
	CompletedBookings int             `bson:"completedBookings" json:"completedBookings"`
	AverageRating     float64         `bson:"averageRating" json:"averageRating"`
	TotalRevenue      decimal.Decimal `bson:"totalRevenue" json:"totalRevenue"`
	AccountAgeMonths  int             `bson:"accountAgeMonths" json:"accountAgeMonths"`
	IsVerified        bool            `bson:"isVerified" json:"isVerified"`
	LastUpdated       time.Time       `bson:"lastUpdated" json:"lastUpdated"`
}

// ProviderTierState is the tier assignment owned by the tier evaluator.
// It is always written as a whole, never patched field by field.
type ProviderTierState struct {
	ProviderID     string             `bson:"providerId" json:"providerId"`
	Tier           Tier               `bson:"providerTier" json:"tier"`
	Metrics        PerformanceMetrics `bson:"performanceMetrics" json:"performanceMetrics"`
	TierAssignedAt time.Time          `bson:"tierAssignedAt" json:"tierAssignedAt"`
}

// NewProviderTierState stamps both the metrics and the assignment with now.
func NewProviderTierState(providerID string, tier Tier, m PerformanceMetrics, now time.Time) *ProviderTierState {
	m.LastUpdated = now
	if m.AverageRating < 0 {
		m.AverageRating = 0
	}
	return &ProviderTierState{
		ProviderID:     providerID,
		Tier:           tier,
		Metrics:        m,
		TierAssignedAt: now,
	}
}
