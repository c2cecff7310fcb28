package transactionRepo

import (
	"context"
	"time"

	"servio/models"

	"github.com/shopspring/decimal"
)

// TransactionRepository is the store for payment transactions. Records are
// created once per booking and only their payment status changes afterwards.
type TransactionRepository interface {
	// CreateOnce inserts tx unless a transaction for the same booking exists,
	// in which case the stored record is returned with created=false.
	CreateOnce(ctx context.Context, tx *models.PaymentTransaction) (stored *models.PaymentTransaction, created bool, err error)
	GetByID(ctx context.Context, id string) (*models.PaymentTransaction, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.PaymentTransaction, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, at time.Time) (*models.PaymentTransaction, error)
	// SumCompletedPayouts totals providerPayout over a provider's COMPLETED transactions.
	SumCompletedPayouts(ctx context.Context, providerID string) (decimal.Decimal, error)
	// ListCompletedBetween returns COMPLETED transactions created in [from, to).
	ListCompletedBetween(ctx context.Context, from, to time.Time) ([]models.PaymentTransaction, error)
}
