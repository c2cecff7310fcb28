package commission

import (
	"context"
	"testing"

	"servio/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type recordingIntents struct {
	params *stripe.PaymentIntentParams
	status stripe.PaymentIntentStatus
}

func (r *recordingIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	r.params = params
	return &stripe.PaymentIntent{ID: "pi_123", Status: r.status}, nil
}

func TestStripeGatewayCharge(t *testing.T) {
	intents := &recordingIntents{status: stripe.PaymentIntentStatusSucceeded}
	gw := &StripeGateway{intents: intents, currency: "usd"}

	res, err := gw.Charge(context.Background(), ChargeRequest{
		BookingID:  "b1",
		Amount:     decimal.RequireFromString("49.99"),
		Commission: decimal.RequireFromString("9.00"),
		Tier:       models.TierNew,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, res.Status)
	assert.Equal(t, "pi_123", res.Reference)

	assert.Equal(t, int64(4999), *intents.params.Amount)
	assert.Equal(t, "usd", *intents.params.Currency)
	assert.Equal(t, "booking-b1", *intents.params.IdempotencyKey)
	assert.Equal(t, "9.00", intents.params.Metadata["platformCommission"])
	assert.Nil(t, intents.params.ApplicationFeeAmount, "providers have no connected accounts")
}

func TestIntentStatus(t *testing.T) {
	assert.Equal(t, models.PaymentFailed, intentStatus(stripe.PaymentIntentStatusCanceled))
	assert.Equal(t, models.PaymentPending, intentStatus(stripe.PaymentIntentStatusRequiresPaymentMethod))
}
