package notification

import (
	"context"
	"fmt"

	"servio/models"
	"servio/services/tasks"

	"go.uber.org/zap"
)

// AsynqEmailService queues emails for the worker to deliver.
type AsynqEmailService struct {
	Client tasks.Enqueuer
	Logger *zap.Logger
}

func NewAsynqEmailService(client tasks.Enqueuer, logger *zap.Logger) *AsynqEmailService {
	return &AsynqEmailService{Client: client, Logger: logger}
}

func (s *AsynqEmailService) SendBookingConfirmation(ctx context.Context, booking *models.Booking) error {
	return s.enqueue(ctx, tasks.EmailPayload{
		Kind:        tasks.EmailBookingConfirmation,
		BookingID:   booking.ID,
		RecipientID: booking.CustomerID,
		Data: map[string]string{
			"date":       booking.Date,
			"time":       booking.Time,
			"providerId": booking.ProviderID,
		},
	})
}

func (s *AsynqEmailService) SendBookingCancellation(ctx context.Context, booking *models.Booking, reason string) error {
	return s.enqueue(ctx, tasks.EmailPayload{
		Kind:        tasks.EmailBookingCancellation,
		BookingID:   booking.ID,
		RecipientID: booking.CustomerID,
		Data: map[string]string{
			"date":   booking.Date,
			"time":   booking.Time,
			"reason": reason,
		},
	})
}

func (s *AsynqEmailService) SendRescheduleNotice(ctx context.Context, booking *models.Booking, entry models.RescheduleEntry) error {
	return s.enqueue(ctx, tasks.EmailPayload{
		Kind:        tasks.EmailRescheduleNotice,
		BookingID:   booking.ID,
		RecipientID: booking.CustomerID,
		Data: map[string]string{
			"originalDate": entry.OriginalDate,
			"originalTime": entry.OriginalTime,
			"newDate":      entry.NewDate,
			"newTime":      entry.NewTime,
			"reason":       entry.Reason,
		},
	})
}

func (s *AsynqEmailService) enqueue(ctx context.Context, p tasks.EmailPayload) error {
	task, opts, err := tasks.NewEmailTask(p)
	if err != nil {
		return fmt.Errorf("build email task: %w", err)
	}
	info, err := s.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s email for booking %s: %w", p.Kind, p.BookingID, err)
	}
	s.Logger.Debug("email queued",
		zap.String("kind", p.Kind),
		zap.String("bookingId", p.BookingID),
		zap.String("taskId", info.ID))
	return nil
}

// LogMailer records deliveries in the log. Transport integrations plug in
// behind Mailer.
type LogMailer struct {
	Logger *zap.Logger
}

func (m LogMailer) Deliver(ctx context.Context, p tasks.EmailPayload) error {
	m.Logger.Info("email delivered",
		zap.String("kind", p.Kind),
		zap.String("bookingId", p.BookingID),
		zap.String("recipientId", p.RecipientID))
	return nil
}
