package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCancelled  BookingStatus = "CANCELLED"
)

// BookingStatuses lists every known status in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
}

// IsValid reports whether s is a known status.
func (s BookingStatus) IsValid() bool {
	for _, known := range BookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// RescheduleEntry records one change of a booking's date/time.
type RescheduleEntry struct {
	OriginalDate string    `bson:"originalDate" json:"originalDate"`
	OriginalTime string    `bson:"originalTime" json:"originalTime"`
	NewDate      string    `bson:"newDate" json:"newDate"`
	NewTime      string    `bson:"newTime" json:"newTime"`
	Reason       string    `bson:"reason" json:"reason"`
	ChangedBy    string    `bson:"changedBy" json:"changedBy"`
	ChangedAt    time.Time `bson:"changedAt" json:"changedAt"`
}

// ProviderNote is a free-form annotation a provider attaches to a booking.
type ProviderNote struct {
	Text    string    `bson:"text" json:"text"`
	AddedBy string    `bson:"addedBy" json:"addedBy"`
	AddedAt time.Time `bson:"addedAt" json:"addedAt"`
}

// Booking represents a customer's reservation with a provider.
type Booking struct {
	ID                 string            `bson:"id" json:"id"`
	CustomerID         string            `bson:"customerId" json:"customerId"`
	ProviderID         string            `bson:"providerId" json:"providerId"`
	BusinessID         string            `bson:"businessId" json:"businessId"`
	ServiceCategory    string            `bson:"serviceCategory" json:"serviceCategory"`
	Status             BookingStatus     `bson:"status" json:"status"`
	Date               string            `bson:"date" json:"date"` // "2006-01-02"
	Time               string            `bson:"time" json:"time"` // "15:04"
	TotalAmount        decimal.Decimal   `bson:"totalAmount" json:"totalAmount"`
	PaymentMethod      string            `bson:"paymentMethod" json:"paymentMethod"`
	CancellationReason string            `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	RescheduleHistory  []RescheduleEntry `bson:"rescheduleHistory" json:"rescheduleHistory"`
	ProviderNotes      []ProviderNote    `bson:"providerNotes" json:"providerNotes"`
	CreatedAt          time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time         `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy          string            `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// NewBooking builds a PENDING booking with its collections initialised.
func NewBooking(id, customerID, providerID, businessID string, amount decimal.Decimal, now time.Time) *Booking {
	return &Booking{
		ID:                id,
		CustomerID:        customerID,
		ProviderID:        providerID,
		BusinessID:        businessID,
		Status:            BookingPending,
		TotalAmount:       amount,
		PaymentMethod:     PaymentMethodCash,
		RescheduleHistory: []RescheduleEntry{},
		ProviderNotes:     []ProviderNote{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
