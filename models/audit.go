package models

import "time"

// BookingAuditEntry records one applied status transition.
type BookingAuditEntry struct {
	ID             string        `bson:"id" json:"id"`
	BookingID      string        `bson:"bookingId" json:"bookingId"`
	PreviousStatus BookingStatus `bson:"previousStatus" json:"previousStatus"`
	NewStatus      BookingStatus `bson:"newStatus" json:"newStatus"`
	ChangedBy      string        `bson:"changedBy" json:"changedBy"`
	ChangedAt      time.Time     `bson:"changedAt" json:"changedAt"`
	Reason         string        `bson:"reason,omitempty" json:"reason,omitempty"`
}
