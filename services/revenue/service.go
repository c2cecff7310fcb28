package revenue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servio/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidTimeframe = errors.New("timeframe must be one of 7d, 30d, 90d, 1y")

// TransactionSource loads settled transactions by creation time.
type TransactionSource interface {
	ListCompletedBetween(ctx context.Context, from, to time.Time) ([]models.PaymentTransaction, error)
}

// PeriodReport is a window's aggregate compared with the window before it.
type PeriodReport struct {
	Report
	Timeframe            string  `json:"timeframe"`
	PreviousTotals       Totals  `json:"previousTotals"`
	GrowthRate           float64 `json:"growthRate"`
	CommissionGrowthRate float64 `json:"commissionGrowthRate"`
}

type Service struct {
	Transactions TransactionSource
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewService(txs TransactionSource, logger *zap.Logger) *Service {
	return &Service{Transactions: txs, Logger: logger, Now: func() time.Time { return time.Now().UTC() }}
}

// Window returns the current [from, to) range and bucketing for timeframe.
// Day windows end with today; the 1y window covers twelve whole months
// ending with the current one.
func Window(timeframe string, now time.Time) (from, to time.Time, b Bucketing, err error) {
	today := truncate(now, ByDay)
	switch timeframe {
	case "7d", "30d", "90d":
		days := map[string]int{"7d": 7, "30d": 30, "90d": 90}[timeframe]
		return today.AddDate(0, 0, -(days - 1)), today.AddDate(0, 0, 1), ByDay, nil
	case "1y":
		month := truncate(now, ByMonth)
		return month.AddDate(0, -11, 0), month.AddDate(0, 1, 0), ByMonth, nil
	}
	return time.Time{}, time.Time{}, "", fmt.Errorf("%w: got %q", ErrInvalidTimeframe, timeframe)
}

// previousWindow is the equally long range immediately before [from, to).
func previousWindow(from, to time.Time, b Bucketing) (time.Time, time.Time) {
	if b == ByMonth {
		months := (to.Year()-from.Year())*12 + int(to.Month()-from.Month())
		return from.AddDate(0, -months, 0), from
	}
	return from.Add(-to.Sub(from)), from
}

func (s *Service) Report(ctx context.Context, timeframe string) (*PeriodReport, error) {
	from, to, bucketing, err := Window(timeframe, s.Now())
	if err != nil {
		return nil, err
	}
	prevFrom, prevTo := previousWindow(from, to, bucketing)

	var current, previous []models.PaymentTransaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := s.Transactions.ListCompletedBetween(gctx, from, to)
		current = txs
		return err
	})
	g.Go(func() error {
		txs, err := s.Transactions.ListCompletedBetween(gctx, prevFrom, prevTo)
		previous = txs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load transactions for %s report: %w", timeframe, err)
	}

	cur := Aggregate(current, Options{Bucketing: bucketing, From: from, To: to})
	prev := Aggregate(previous, Options{Bucketing: bucketing, From: prevFrom, To: prevTo})

	s.Logger.Debug("revenue report built",
		zap.String("timeframe", timeframe),
		zap.Int("transactions", cur.Totals.Count))

	return &PeriodReport{
		Timeframe:            timeframe,
		Report:               cur,
		PreviousTotals:       prev.Totals,
		GrowthRate:           GrowthRate(cur.Totals.TotalAmount, prev.Totals.TotalAmount),
		CommissionGrowthRate: GrowthRate(cur.Totals.PlatformCommission, prev.Totals.PlatformCommission),
	}, nil
}
