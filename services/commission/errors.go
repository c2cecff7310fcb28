package commission

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidAmountError rejects a non-positive transaction amount.
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %s: must be greater than zero", e.Amount.String())
}

// InvalidRateError rejects a rate table update. Tier is empty when the
// whole request is malformed.
type InvalidRateError struct {
	Tier   string
	Rate   float64
	Reason string
}

func (e *InvalidRateError) Error() string {
	if e.Tier == "" {
		return "invalid commission rates: " + e.Reason
	}
	return fmt.Sprintf("invalid commission rate %v for tier %q: %s", e.Rate, e.Tier, e.Reason)
}

var ErrInvalidPaymentStatus = errors.New("invalid payment status")
