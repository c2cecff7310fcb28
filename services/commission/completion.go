package commission

import (
	"context"
	"errors"
	"fmt"

	"servio/models"
	"servio/services/tasks"
	"servio/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// CompletionRecorder records the transaction of a completed booking.
type CompletionRecorder interface {
	RecordCompletion(ctx context.Context, booking *models.Booking) (*models.PaymentTransaction, error)
}

// CompletionQueue is the booking completion hook. It queues a retried
// booking:complete task so the transition never waits on the payment
// gateway. Only when the queue rejects the task is the transaction recorded
// inline.
type CompletionQueue struct {
	Queue    tasks.Enqueuer
	Fallback CompletionRecorder
	Logger   *zap.Logger
	Metrics  *utils.Metrics
}

func NewCompletionQueue(queue tasks.Enqueuer, fallback CompletionRecorder, logger *zap.Logger, metrics *utils.Metrics) *CompletionQueue {
	return &CompletionQueue{Queue: queue, Fallback: fallback, Logger: logger, Metrics: metrics}
}

func (q *CompletionQueue) BookingCompleted(ctx context.Context, booking *models.Booking) error {
	task, opts, err := tasks.NewBookingCompleteTask(tasks.BookingCompletePayload{BookingID: booking.ID})
	if err != nil {
		return err
	}
	_, err = q.Queue.EnqueueContext(ctx, task, opts...)
	if err == nil || errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}

	q.Logger.Warn("failed to queue booking completion, recording inline",
		zap.String("bookingId", booking.ID), zap.Error(err))
	q.Metrics.ObserveSideEffectFailure("completion_enqueue")
	if q.Fallback == nil {
		return fmt.Errorf("queue completion of booking %s: %w", booking.ID, err)
	}
	if _, ferr := q.Fallback.RecordCompletion(ctx, booking); ferr != nil {
		return fmt.Errorf("queue completion of booking %s: %v; record inline: %w", booking.ID, err, ferr)
	}
	return nil
}
