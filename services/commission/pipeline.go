package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servio/models"
	"servio/services/tasks"
	"servio/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TransactionStore is the payment transaction persistence the pipeline needs.
type TransactionStore interface {
	CreateOnce(ctx context.Context, tx *models.PaymentTransaction) (*models.PaymentTransaction, bool, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.PaymentTransaction, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, at time.Time) (*models.PaymentTransaction, error)
}

// TierReader returns a provider's stored tier.
type TierReader interface {
	Current(ctx context.Context, providerID string) (*models.ProviderTierState, bool, error)
}

// Pipeline records the financial side of a completed booking.
type Pipeline struct {
	Calculator   *Calculator
	Transactions TransactionStore
	Tiers        TierReader
	Gateway      PaymentGateway
	Queue        tasks.Enqueuer
	Logger       *zap.Logger
	Metrics      *utils.Metrics
	Now          func() time.Time
}

func NewPipeline(calc *Calculator, txs TransactionStore, tiers TierReader, gateway PaymentGateway, queue tasks.Enqueuer, logger *zap.Logger, metrics *utils.Metrics) *Pipeline {
	return &Pipeline{
		Calculator:   calc,
		Transactions: txs,
		Tiers:        tiers,
		Gateway:      gateway,
		Queue:        queue,
		Logger:       logger,
		Metrics:      metrics,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

// RecordCompletion creates the booking's transaction using the provider's tier
// as stored right now. Calling it again for the same booking returns the
// existing transaction without charging twice.
func (p *Pipeline) RecordCompletion(ctx context.Context, booking *models.Booking) (*models.PaymentTransaction, error) {
	existing, err := p.Transactions.GetByBookingID(ctx, booking.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("check existing transaction: %w", err)
	}

	state, _, err := p.Tiers.Current(ctx, booking.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("resolve tier for provider %s: %w", booking.ProviderID, err)
	}
	split, err := p.Calculator.Split(ctx, booking.TotalAmount, state.Tier)
	if err != nil {
		return nil, err
	}

	now := p.Now()
	tx := models.NewPaymentTransaction(uuid.New().String(), booking, split.Tier, split.Rate, split.Commission, split.Payout, now)
	p.settle(ctx, tx)

	stored, created, err := p.Transactions.CreateOnce(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("record transaction for booking %s: %w", booking.ID, err)
	}
	if !created {
		return stored, nil
	}

	p.Metrics.ObserveSplit(string(stored.Tier), stored.PlatformCommission.InexactFloat64())
	p.Logger.Info("transaction recorded",
		zap.String("bookingId", booking.ID),
		zap.String("transactionId", stored.ID),
		zap.String("tier", string(stored.Tier)),
		zap.String("commission", stored.PlatformCommission.StringFixed(2)),
		zap.String("paymentStatus", string(stored.PaymentStatus)))

	p.enqueueRecompute(ctx, booking.ProviderID, "transaction recorded")
	return stored, nil
}

// settle decides the initial payment status. Cash is collected on site.
func (p *Pipeline) settle(ctx context.Context, tx *models.PaymentTransaction) {
	if tx.PaymentMethod == models.PaymentMethodCash {
		tx.PaymentStatus = models.PaymentCompleted
		return
	}
	if p.Gateway == nil {
		return
	}
	res, err := p.Gateway.Charge(ctx, ChargeRequest{
		BookingID:  tx.BookingID,
		CustomerID: tx.CustomerID,
		ProviderID: tx.ProviderID,
		Amount:     tx.TotalAmount,
		Commission: tx.PlatformCommission,
		Tier:       tx.Tier,
	})
	if err != nil {
		p.Logger.Error("payment charge failed",
			zap.String("bookingId", tx.BookingID), zap.Error(err))
		p.Metrics.ObserveSideEffectFailure("payment")
		tx.PaymentStatus = models.PaymentFailed
		return
	}
	tx.PaymentStatus = res.Status
	tx.PaymentReference = res.Reference
}

// UpdatePaymentStatus corrects a transaction's payment status. Amounts never change.
func (p *Pipeline) UpdatePaymentStatus(ctx context.Context, txID string, status models.PaymentStatus) (*models.PaymentTransaction, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, status)
	}
	tx, err := p.Transactions.UpdatePaymentStatus(ctx, txID, status, p.Now())
	if err != nil {
		return nil, err
	}
	// settled revenue feeds the tier
	p.enqueueRecompute(ctx, tx.ProviderID, "payment status changed")
	return tx, nil
}

func (p *Pipeline) enqueueRecompute(ctx context.Context, providerID, reason string) {
	if p.Queue == nil {
		return
	}
	task, opts, err := tasks.NewTierRecomputeTask(tasks.TierRecomputePayload{ProviderID: providerID, Reason: reason})
	if err == nil {
		_, err = p.Queue.EnqueueContext(ctx, task, opts...)
	}
	if err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		p.Logger.Warn("failed to enqueue tier recompute",
			zap.String("providerId", providerID), zap.Error(err))
		p.Metrics.ObserveSideEffectFailure("tier_recompute")
	}
}
