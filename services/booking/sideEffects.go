package booking

import (
	"context"
	"fmt"

	"servio/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// detached returns a context that survives the caller's cancellation so
// committed changes still get their side effects.
func (sm *StateMachine) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sm.SideEffectTimeout)
}

// afterTransition runs post-commit work. Failures are logged and counted;
// the transition itself is already final.
func (sm *StateMachine) afterTransition(ctx context.Context, from models.BookingStatus, b *models.Booking, req TransitionRequest) {
	ctx, cancel := sm.detached(ctx)
	defer cancel()

	entry := models.BookingAuditEntry{
		ID:             uuid.New().String(),
		BookingID:      b.ID,
		PreviousStatus: from,
		NewStatus:      b.Status,
		ChangedBy:      req.Actor.ID,
		ChangedAt:      b.UpdatedAt,
		Reason:         req.Reason,
	}
	if _, err := sm.Audit.Append(ctx, entry); err != nil {
		sm.sideEffectFailed("audit", b.ID, err)
	}

	sm.record(ctx, statusNotification(b, from, req.Reason))

	switch b.Status {
	case models.BookingConfirmed:
		// CAS guarantees only one caller gets here per booking
		if err := sm.Emails.SendBookingConfirmation(ctx, b); err != nil {
			sm.sideEffectFailed("email", b.ID, err)
		}
	case models.BookingCancelled:
		if err := sm.Emails.SendBookingCancellation(ctx, b, req.Reason); err != nil {
			sm.sideEffectFailed("email", b.ID, err)
		}
	case models.BookingCompleted:
		if sm.OnComplete != nil {
			if err := sm.OnComplete.BookingCompleted(ctx, b); err != nil {
				sm.sideEffectFailed("completion", b.ID, err)
			}
		}
	}
}

func (sm *StateMachine) record(ctx context.Context, n models.Notification) {
	if err := sm.Sink.Record(ctx, n); err != nil {
		sm.sideEffectFailed("notification", fmt.Sprint(n.Data["bookingId"]), err)
	}
}

func (sm *StateMachine) sideEffectFailed(kind, bookingID string, err error) {
	sm.Metrics.ObserveSideEffectFailure(kind)
	sm.Logger.Error("booking side effect failed",
		zap.String("kind", kind),
		zap.String("bookingId", bookingID),
		zap.Error(err))
}

func statusNotification(b *models.Booking, from models.BookingStatus, reason string) models.Notification {
	var title, message, notificationType string
	switch b.Status {
	case models.BookingConfirmed:
		notificationType = models.NotificationBookingConfirmed
		title = "Booking Confirmed!"
		message = fmt.Sprintf("Your booking on %s at %s has been confirmed.", b.Date, b.Time)
	case models.BookingCancelled:
		notificationType = models.NotificationBookingCancelled
		title = "Booking Cancelled"
		message = fmt.Sprintf("Your booking on %s at %s was cancelled.", b.Date, b.Time)
		if reason != "" {
			message += " Reason: " + reason
		}
	case models.BookingInProgress:
		notificationType = models.NotificationBookingStatus
		title = "Service Started"
		message = "Your provider has started the service."
	case models.BookingCompleted:
		notificationType = models.NotificationBookingStatus
		title = "Service Completed"
		message = "Your booking is complete. Thanks for using Servio!"
	default:
		notificationType = models.NotificationBookingStatus
		title = "Booking Updated"
		message = fmt.Sprintf("Your booking is now %s.", b.Status)
	}

	return models.Notification{
		ID:          uuid.New().String(),
		RecipientID: b.CustomerID,
		Type:        notificationType,
		Title:       title,
		Message:     message,
		Data: map[string]any{
			"bookingId":      b.ID,
			"previousStatus": from,
			"status":         b.Status,
			"date":           b.Date,
			"time":           b.Time,
			"providerId":     b.ProviderID,
		},
		CreatedAt: b.UpdatedAt,
	}
}
