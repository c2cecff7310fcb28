package revenue

import (
	"sort"
	"time"

	"servio/models"

	"github.com/shopspring/decimal"
)

// Bucketing is the width of a report period.
type Bucketing string

const (
	ByDay   Bucketing = "day"
	ByMonth Bucketing = "month"
)

var hundred = decimal.NewFromInt(100)

// Options bound an aggregation. A zero From or To leaves that side open and
// only periods containing transactions are reported.
type Options struct {
	Bucketing Bucketing
	From      time.Time
	To        time.Time
}

type Totals struct {
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	PlatformCommission  decimal.Decimal `json:"platformCommission"`
	ProviderPayout      decimal.Decimal `json:"providerPayout"`
	Count               int             `json:"count"`
	AvgTransactionValue decimal.Decimal `json:"avgTransactionValue"`
}

func (t *Totals) add(tx models.PaymentTransaction) {
	t.TotalAmount = t.TotalAmount.Add(tx.TotalAmount)
	t.PlatformCommission = t.PlatformCommission.Add(tx.PlatformCommission)
	t.ProviderPayout = t.ProviderPayout.Add(tx.ProviderPayout)
	t.Count++
}

func (t *Totals) finish() {
	if t.Count == 0 {
		t.AvgTransactionValue = decimal.Zero
		return
	}
	t.AvgTransactionValue = t.TotalAmount.Div(decimal.NewFromInt(int64(t.Count))).Round(2)
}

type Bucket struct {
	Period string    `json:"period"`
	Start  time.Time `json:"start"`
	Totals
	// GrowthRate compares TotalAmount with the preceding bucket.
	GrowthRate float64 `json:"growthRate"`
}

type BreakdownItem struct {
	Key        string          `json:"key"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

type Report struct {
	Bucketing         Bucketing       `json:"bucketing"`
	From              time.Time       `json:"from,omitzero"`
	To                time.Time       `json:"to,omitzero"`
	Totals            Totals          `json:"totals"`
	Buckets           []Bucket        `json:"buckets"`
	ByPaymentMethod   []BreakdownItem `json:"byPaymentMethod"`
	ByServiceCategory []BreakdownItem `json:"byServiceCategory"`
}

// Aggregate summarises the COMPLETED transactions of txs inside the window.
// It has no state and the input order does not matter.
func Aggregate(txs []models.PaymentTransaction, opts Options) Report {
	if opts.Bucketing != ByMonth {
		opts.Bucketing = ByDay
	}
	report := Report{Bucketing: opts.Bucketing, From: opts.From, To: opts.To}

	buckets := map[time.Time]*Bucket{}
	methods := map[string]*BreakdownItem{}
	categories := map[string]*BreakdownItem{}

	for _, tx := range txs {
		if tx.PaymentStatus != models.PaymentCompleted || !inWindow(tx.CreatedAt, opts) {
			continue
		}
		report.Totals.add(tx)

		start := truncate(tx.CreatedAt, opts.Bucketing)
		b, ok := buckets[start]
		if !ok {
			b = newBucket(start, opts.Bucketing)
			buckets[start] = b
		}
		b.add(tx)

		addBreakdown(methods, keyOr(tx.PaymentMethod, models.PaymentMethodCash), tx.TotalAmount)
		addBreakdown(categories, keyOr(tx.ServiceCategory, "uncategorized"), tx.TotalAmount)
	}
	report.Totals.finish()

	if !opts.From.IsZero() && !opts.To.IsZero() {
		for start := truncate(opts.From, opts.Bucketing); start.Before(opts.To); start = next(start, opts.Bucketing) {
			if _, ok := buckets[start]; !ok {
				buckets[start] = newBucket(start, opts.Bucketing)
			}
		}
	}

	report.Buckets = make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		b.finish()
		report.Buckets = append(report.Buckets, *b)
	}
	sort.Slice(report.Buckets, func(i, j int) bool {
		return report.Buckets[i].Start.Before(report.Buckets[j].Start)
	})
	for i := 1; i < len(report.Buckets); i++ {
		report.Buckets[i].GrowthRate = GrowthRate(report.Buckets[i].TotalAmount, report.Buckets[i-1].TotalAmount)
	}

	report.ByPaymentMethod = finishBreakdown(methods, report.Totals.TotalAmount)
	report.ByServiceCategory = finishBreakdown(categories, report.Totals.TotalAmount)
	return report
}

// GrowthRate is the percentage change from previous to current, rounded to
// two places. From zero it is 0 when current is zero and 100 otherwise.
func GrowthRate(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2).InexactFloat64()
}

func inWindow(t time.Time, opts Options) bool {
	if !opts.From.IsZero() && t.Before(opts.From) {
		return false
	}
	if !opts.To.IsZero() && !t.Before(opts.To) {
		return false
	}
	return true
}

func truncate(t time.Time, b Bucketing) time.Time {
	t = t.UTC()
	if b == ByMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func next(t time.Time, b Bucketing) time.Time {
	if b == ByMonth {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}

func newBucket(start time.Time, b Bucketing) *Bucket {
	period := start.Format("2006-01-02")
	if b == ByMonth {
		period = start.Format("2006-01")
	}
	return &Bucket{Period: period, Start: start}
}

func keyOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func addBreakdown(m map[string]*BreakdownItem, key string, amount decimal.Decimal) {
	item, ok := m[key]
	if !ok {
		item = &BreakdownItem{Key: key}
		m[key] = item
	}
	item.Amount = item.Amount.Add(amount)
	item.Count++
}

func finishBreakdown(m map[string]*BreakdownItem, total decimal.Decimal) []BreakdownItem {
	out := make([]BreakdownItem, 0, len(m))
	for _, item := range m {
		if total.IsPositive() {
			item.Percentage = item.Amount.Div(total).Mul(hundred).Round(2).InexactFloat64()
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}
