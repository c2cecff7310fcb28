package models

import "time"

// ApprovalApproved is the business approval status that marks a provider verified.
const ApprovalApproved = "APPROVED"

// ProviderProfile is the slice of the provider/business document the engine reads.
// Registration, documents and approval workflows live elsewhere.
type ProviderProfile struct {
	ID             string    `bson:"id" json:"id"`
	BusinessID     string    `bson:"businessId" json:"businessId"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email,omitempty"`
	Rating         float64   `bson:"rating" json:"rating"`
	ApprovalStatus string    `bson:"approvalStatus" json:"approvalStatus"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`

	ProviderTier       string              `bson:"providerTier,omitempty" json:"providerTier,omitempty"`
	PerformanceMetrics *PerformanceMetrics `bson:"performanceMetrics,omitempty" json:"performanceMetrics,omitempty"`
	TierAssignedAt     *time.Time          `bson:"tierAssignedAt,omitempty" json:"tierAssignedAt,omitempty"`
}

// IsVerified reports whether the business behind the provider is approved.
func (p *ProviderProfile) IsVerified() bool {
	return p.ApprovalStatus == ApprovalApproved
}

// TierState returns the stored tier assignment. ok is false for providers that
// were never evaluated; a legacy tier value alone is normalised to NEW.
func (p *ProviderProfile) TierState() (state *ProviderTierState, ok bool) {
	tier, err := ParseTier(p.ProviderTier)
	if err != nil {
		tier = TierNew
	}
	state = &ProviderTierState{ProviderID: p.ID, Tier: tier}
	if p.PerformanceMetrics == nil || p.TierAssignedAt == nil {
		return state, false
	}
	state.Metrics = *p.PerformanceMetrics
	state.TierAssignedAt = *p.TierAssignedAt
	return state, true
}
