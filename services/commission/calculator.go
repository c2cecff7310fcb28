package commission

import (
	"context"

	"servio/models"

	"github.com/shopspring/decimal"
)

// SplitResult is a transaction amount divided between platform and provider.
type SplitResult struct {
	Tier       models.Tier
	Rate       float64
	Commission decimal.Decimal
	Payout     decimal.Decimal
}

// Split divides amount at rate percent. Commission is rounded to cents half
// away from zero and payout is the exact remainder, so the two always sum to
// amount.
func Split(amount decimal.Decimal, rate float64) (commission, payout decimal.Decimal, err error) {
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, &InvalidAmountError{Amount: amount}
	}
	commission = amount.Mul(decimal.NewFromFloat(rate)).Shift(-2).Round(2)
	payout = amount.Sub(commission)
	return commission, payout, nil
}

// Calculator applies the commission table to transaction amounts.
type Calculator struct {
	Table *Table
}

// Split resolves the rate for tier and splits amount.
func (c *Calculator) Split(ctx context.Context, amount decimal.Decimal, tier models.Tier) (*SplitResult, error) {
	if !amount.IsPositive() {
		return nil, &InvalidAmountError{Amount: amount}
	}
	rate, err := c.Table.RateFor(ctx, tier)
	if err != nil {
		return nil, err
	}
	commission, payout, err := Split(amount, rate)
	if err != nil {
		return nil, err
	}
	return &SplitResult{Tier: tier, Rate: rate, Commission: commission, Payout: payout}, nil
}
