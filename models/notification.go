package models

import "time"

type Notification struct {
	ID          string         `bson:"id" json:"id"`
	RecipientID string         `bson:"recipientId" json:"recipientId"`
	Type        string         `bson:"type" json:"type"`
	Title       string         `bson:"title" json:"title"`
	Message     string         `bson:"message" json:"message"`
	Data        map[string]any `bson:"data,omitempty" json:"data,omitempty"`
	Read        bool           `bson:"read" json:"read"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
}

// Notification types emitted by the booking lifecycle.
const (
	NotificationBookingStatus     = "booking_status"
	NotificationBookingConfirmed  = "booking_confirmed"
	NotificationBookingCancelled  = "booking_cancelled"
	NotificationBookingReschedule = "booking_rescheduled"
)
