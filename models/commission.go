package models

import "time"

// CommissionConfig is the platform-wide tier to rate table (percentages).
type CommissionConfig struct {
	Rates     map[Tier]float64 `bson:"rates" json:"rates"`
	Version   int64            `bson:"version" json:"version"`
	UpdatedAt time.Time        `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy string           `bson:"updatedBy" json:"updatedBy"`
	Reason    string           `bson:"reason" json:"reason"`
}

// CommissionRateChange is one append-only audit record of a tier's rate moving.
type CommissionRateChange struct {
	ID        string    `bson:"id" json:"id"`
	Tier      Tier      `bson:"tier" json:"tier"`
	OldRate   float64   `bson:"oldRate" json:"oldRate"`
	NewRate   float64   `bson:"newRate" json:"newRate"`
	ChangedBy string    `bson:"changedBy" json:"changedBy"`
	ChangedAt time.Time `bson:"changedAt" json:"changedAt"`
	Reason    string    `bson:"reason" json:"reason"`
}
