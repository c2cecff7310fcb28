package commission

import (
	"context"
	"fmt"
	"strings"

	"servio/models"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// ChargeRequest asks the gateway to collect a completed booking's amount.
type ChargeRequest struct {
	BookingID  string
	CustomerID string
	ProviderID string
	Amount     decimal.Decimal
	Commission decimal.Decimal
	Tier       models.Tier
}

// ChargeResult is the gateway's view of the payment.
type ChargeResult struct {
	Status    models.PaymentStatus
	Reference string
}

// PaymentGateway collects card payments for completed bookings. Charges for
// the same booking must be idempotent.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// paymentIntents is the part of the Stripe client the gateway needs.
type paymentIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeGateway creates a PaymentIntent per booking keyed by booking id.
type StripeGateway struct {
	intents  paymentIntents
	currency string
}

func NewStripeGateway(key, currency string) *StripeGateway {
	return &StripeGateway{
		intents:  paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: key},
		currency: strings.ToLower(currency),
	}
}

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(toMinorUnits(req.Amount)),
		Currency:    stripe.String(g.currency),
		Description: stripe.String("Booking " + req.BookingID),
	}
	params.Context = ctx
	params.SetIdempotencyKey("booking-" + req.BookingID)
	params.AddMetadata("bookingId", req.BookingID)
	params.AddMetadata("customerId", req.CustomerID)
	params.AddMetadata("providerId", req.ProviderID)
	params.AddMetadata("tier", string(req.Tier))
	params.AddMetadata("platformCommission", req.Commission.StringFixed(2))

	pi, err := g.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent for booking %s: %w", req.BookingID, err)
	}
	return &ChargeResult{Status: intentStatus(pi.Status), Reference: pi.ID}, nil
}

func intentStatus(s stripe.PaymentIntentStatus) models.PaymentStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return models.PaymentCompleted
	case stripe.PaymentIntentStatusCanceled:
		return models.PaymentFailed
	}
	return models.PaymentPending
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}
