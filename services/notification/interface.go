package notification

import (
	"context"

	"servio/models"
	"servio/services/tasks"
)

// EmailService requests booking emails. Implementations must not block on
// delivery; a nil error means the request was accepted.
type EmailService interface {
	SendBookingConfirmation(ctx context.Context, booking *models.Booking) error
	SendBookingCancellation(ctx context.Context, booking *models.Booking, reason string) error
	SendRescheduleNotice(ctx context.Context, booking *models.Booking, entry models.RescheduleEntry) error
}

// NotificationSink durably records in-app notifications.
type NotificationSink interface {
	Record(ctx context.Context, n models.Notification) error
}

// Mailer performs the actual delivery of a queued email.
type Mailer interface {
	Deliver(ctx context.Context, p tasks.EmailPayload) error
}
