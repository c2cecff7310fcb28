package commission

import (
	"context"
	"errors"
	"testing"
	"time"

	"servio/models"
	"servio/services/tasks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPipeline(tiers staticTiers, gw PaymentGateway) (*Pipeline, *memTxStore, *fakeQueue) {
	txs := newMemTxStore()
	q := &fakeQueue{}
	calc := &Calculator{Table: NewTable(&memConfigStore{}, newChanLocker(), zap.NewNop())}
	p := NewPipeline(calc, txs, tiers, gw, q, zap.NewNop(), nil)
	return p, txs, q
}

func completedBooking(id, method string) *models.Booking {
	b := models.NewBooking(id, "c1", "p1", "biz1", decimal.RequireFromString("100.00"), time.Now())
	b.Status = models.BookingCompleted
	b.PaymentMethod = method
	return b
}

func TestRecordCompletionCash(t *testing.T) {
	p, _, q := newTestPipeline(staticTiers{"p1": models.TierVerified}, nil)

	tx, err := p.RecordCompletion(context.Background(), completedBooking("b1", models.PaymentMethodCash))
	require.NoError(t, err)
	assert.Equal(t, models.TierVerified, tx.Tier)
	assert.Equal(t, 18.0, tx.CommissionRate)
	assert.Equal(t, "18.00", tx.PlatformCommission.StringFixed(2))
	assert.Equal(t, "82.00", tx.ProviderPayout.StringFixed(2))
	assert.Equal(t, models.PaymentCompleted, tx.PaymentStatus)
	assert.Equal(t, []string{tasks.TypeTierRecompute}, q.types)
}

func TestRecordCompletionIsIdempotent(t *testing.T) {
	gw := &fakeGateway{result: ChargeResult{Status: models.PaymentCompleted, Reference: "pi_1"}}
	p, txs, _ := newTestPipeline(staticTiers{"p1": models.TierPremium}, gw)
	b := completedBooking("b1", models.PaymentMethodCard)

	first, err := p.RecordCompletion(context.Background(), b)
	require.NoError(t, err)
	second, err := p.RecordCompletion(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, gw.calls)
	assert.Len(t, txs.byID, 1)
	assert.Equal(t, "pi_1", first.PaymentReference)
}

func TestRecordCompletionKeepsTierAtTransactionTime(t *testing.T) {
	tiers := staticTiers{"p1": models.TierNew}
	p, _, _ := newTestPipeline(tiers, nil)

	first, err := p.RecordCompletion(context.Background(), completedBooking("b1", models.PaymentMethodCash))
	require.NoError(t, err)

	tiers["p1"] = models.TierEnterprise
	second, err := p.RecordCompletion(context.Background(), completedBooking("b2", models.PaymentMethodCash))
	require.NoError(t, err)

	assert.Equal(t, "20.00", first.PlatformCommission.StringFixed(2))
	assert.Equal(t, "12.00", second.PlatformCommission.StringFixed(2))
}

func TestRecordCompletionGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("card declined")}
	p, _, _ := newTestPipeline(staticTiers{}, gw)

	tx, err := p.RecordCompletion(context.Background(), completedBooking("b1", models.PaymentMethodCard))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, tx.PaymentStatus)
	assert.True(t, tx.PlatformCommission.Add(tx.ProviderPayout).Equal(tx.TotalAmount))
}

func TestRecordCompletionCardWithoutGateway(t *testing.T) {
	p, _, _ := newTestPipeline(staticTiers{}, nil)
	tx, err := p.RecordCompletion(context.Background(), completedBooking("b1", models.PaymentMethodCard))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, tx.PaymentStatus)
}

func TestUpdatePaymentStatus(t *testing.T) {
	p, _, q := newTestPipeline(staticTiers{}, nil)
	tx, err := p.RecordCompletion(context.Background(), completedBooking("b1", models.PaymentMethodCard))
	require.NoError(t, err)

	updated, err := p.UpdatePaymentStatus(context.Background(), tx.ID, models.PaymentCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, updated.PaymentStatus)
	assert.True(t, updated.PlatformCommission.Equal(tx.PlatformCommission))
	assert.Len(t, q.types, 2)

	_, err = p.UpdatePaymentStatus(context.Background(), tx.ID, "REFUNDED")
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)

	_, err = p.UpdatePaymentStatus(context.Background(), "missing", models.PaymentFailed)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
