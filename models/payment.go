package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks settlement of a transaction.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// IsValid reports whether s is a known payment status.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
)

// PaymentTransaction is the financial record created when a booking completes.
// PlatformCommission and ProviderPayout are fixed at creation and always sum to TotalAmount.
type PaymentTransaction struct {
	ID                 string          `bson:"id" json:"id"`
	BookingID          string          `bson:"bookingId" json:"bookingId"`
	ProviderID         string          `bson:"providerId" json:"providerId"`
	CustomerID         string          `bson:"customerId" json:"customerId"`
	ServiceCategory    string          `bson:"serviceCategory" json:"serviceCategory"`
	Tier               Tier            `bson:"tier" json:"tier"`
	CommissionRate     float64         `bson:"commissionRate" json:"commissionRate"`
	TotalAmount        decimal.Decimal `bson:"totalAmount" json:"totalAmount"`
	PlatformCommission decimal.Decimal `bson:"platformCommission" json:"platformCommission"`
	ProviderPayout     decimal.Decimal `bson:"providerPayout" json:"providerPayout"`
	PaymentStatus      PaymentStatus   `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod      string          `bson:"paymentMethod" json:"paymentMethod"`
	PaymentReference   string          `bson:"paymentReference,omitempty" json:"paymentReference,omitempty"`
	CreatedAt          time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// NewPaymentTransaction builds a PENDING transaction for a completed booking.
// The caller supplies the already-split amounts.
func NewPaymentTransaction(id string, b *Booking, tier Tier, rate float64, commission, payout decimal.Decimal, now time.Time) *PaymentTransaction {
	method := b.PaymentMethod
	if method == "" {
		method = PaymentMethodCash
	}
	category := b.ServiceCategory
	if category == "" {
		category = "uncategorized"
	}
	return &PaymentTransaction{
		ID:                 id,
		BookingID:          b.ID,
		ProviderID:         b.ProviderID,
		CustomerID:         b.CustomerID,
		ServiceCategory:    category,
		Tier:               tier,
		CommissionRate:     rate,
		TotalAmount:        b.TotalAmount,
		PlatformCommission: commission,
		ProviderPayout:     payout,
		PaymentStatus:      PaymentPending,
		PaymentMethod:      method,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
