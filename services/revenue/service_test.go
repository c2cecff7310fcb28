package revenue

import (
	"context"
	"errors"
	"testing"
	"time"

	"servio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memSource struct {
	txs []models.PaymentTransaction
	err error
}

func (m *memSource) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]models.PaymentTransaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.PaymentTransaction
	for _, tx := range m.txs {
		if !tx.CreatedAt.Before(from) && tx.CreatedAt.Before(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func TestWindow(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)

	from, to, b, err := Window("7d", now)
	require.NoError(t, err)
	assert.Equal(t, ByDay, b)
	assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), to)

	from, to, b, err = Window("1y", now)
	require.NoError(t, err)
	assert.Equal(t, ByMonth, b)
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), to)

	_, _, _, err = Window("2w", now)
	assert.ErrorIs(t, err, ErrInvalidTimeframe)
}

func TestServiceReport(t *testing.T) {
	src := &memSource{txs: []models.PaymentTransaction{
		tx("prev", time.Date(2026, 10, 5, 9, 0, 0, 0, time.UTC), "100", "20", "cash", "a"),
		tx("cur1", time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC), "100", "20", "cash", "a"),
		tx("cur2", time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC), "50", "10", "card", "b"),
	}}
	svc := NewService(src, zap.NewNop())
	svc.Now = func() time.Time { return time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC) }

	r, err := svc.Report(context.Background(), "7d")
	require.NoError(t, err)
	assert.Equal(t, "7d", r.Timeframe)
	assert.Equal(t, 2, r.Totals.Count)
	assert.Len(t, r.Buckets, 7)
	assert.Equal(t, 1, r.PreviousTotals.Count)
	assert.Equal(t, 50.0, r.GrowthRate)
	assert.Equal(t, 50.0, r.CommissionGrowthRate)
}

func TestServiceReportErrors(t *testing.T) {
	svc := NewService(&memSource{err: errors.New("boom")}, zap.NewNop())
	_, err := svc.Report(context.Background(), "30d")
	assert.Error(t, err)

	_, err = svc.Report(context.Background(), "forever")
	assert.ErrorIs(t, err, ErrInvalidTimeframe)
}
