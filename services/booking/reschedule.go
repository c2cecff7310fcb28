package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"servio/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Reschedule moves a CONFIRMED booking to a new date and time. Dates are
// compared as UTC calendar days; today is allowed.
func (sm *StateMachine) Reschedule(ctx context.Context, req RescheduleRequest) (*models.Booking, error) {
	newDate, err := time.Parse(dateLayout, strings.TrimSpace(req.NewDate))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidDate)
	}
	if _, err := time.Parse(timeLayout, strings.TrimSpace(req.NewTime)); err != nil {
		return nil, fmt.Errorf("%w: time must be HH:MM", ErrInvalidDate)
	}
	now := sm.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if newDate.Before(today) {
		return nil, fmt.Errorf("%w: %s is in the past", ErrInvalidDate, req.NewDate)
	}

	current, err := sm.Store.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !sm.Owns(req.Actor, current) && req.Actor.ID != current.CustomerID {
		return nil, fmt.Errorf("actor %s may not reschedule booking %s: %w", req.Actor.ID, current.ID, models.ErrForbidden)
	}
	if current.Status != models.BookingConfirmed {
		return nil, fmt.Errorf("%w: booking is %s", ErrRescheduleNotAllowed, current.Status)
	}

	entry := models.RescheduleEntry{
		OriginalDate: current.Date,
		OriginalTime: current.Time,
		NewDate:      newDate.Format(dateLayout),
		NewTime:      strings.TrimSpace(req.NewTime),
		Reason:       req.Reason,
		ChangedBy:    req.Actor.ID,
		ChangedAt:    now,
	}
	updated, err := sm.Store.AppendReschedule(ctx, current.ID, entry)
	if err != nil {
		return nil, err
	}

	sm.Logger.Info("booking rescheduled",
		zap.String("bookingId", updated.ID),
		zap.String("from", entry.OriginalDate+" "+entry.OriginalTime),
		zap.String("to", entry.NewDate+" "+entry.NewTime))

	sctx, cancel := sm.detached(ctx)
	defer cancel()
	sm.record(sctx, models.Notification{
		ID:          uuid.New().String(),
		RecipientID: updated.CustomerID,
		Type:        models.NotificationBookingReschedule,
		Title:       "Booking Rescheduled",
		Message:     fmt.Sprintf("Your booking has moved to %s at %s.", entry.NewDate, entry.NewTime),
		Data: map[string]any{
			"bookingId":    updated.ID,
			"originalDate": entry.OriginalDate,
			"originalTime": entry.OriginalTime,
			"newDate":      entry.NewDate,
			"newTime":      entry.NewTime,
		},
		CreatedAt: now,
	})
	if err := sm.Emails.SendRescheduleNotice(sctx, updated, entry); err != nil {
		sm.sideEffectFailed("email", updated.ID, err)
	}
	return updated, nil
}
