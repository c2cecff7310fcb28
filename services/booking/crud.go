package booking

import (
	"context"
	"fmt"
	"strings"

	"servio/models"
)

const maxNoteLength = 2000

func (sm *StateMachine) canRead(actor models.Actor, b *models.Booking) bool {
	return sm.Owns(actor, b) || actor.ID == b.CustomerID
}

// Get returns a booking visible to actor.
func (sm *StateMachine) Get(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	b, err := sm.Store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !sm.canRead(actor, b) {
		return nil, fmt.Errorf("booking %s: %w", bookingID, models.ErrForbidden)
	}
	return b, nil
}

// History returns the booking's status changes oldest first.
func (sm *StateMachine) History(ctx context.Context, bookingID string, actor models.Actor) ([]models.BookingAuditEntry, error) {
	if _, err := sm.Get(ctx, bookingID, actor); err != nil {
		return nil, err
	}
	return sm.Audit.ListByBooking(ctx, bookingID)
}

// AddProviderNote annotates a booking. Notes do not affect status and may be
// added in any status.
func (sm *StateMachine) AddProviderNote(ctx context.Context, bookingID, text string, actor models.Actor) (*models.Booking, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxNoteLength {
		return nil, fmt.Errorf("%w: text must be 1-%d characters", ErrInvalidNote, maxNoteLength)
	}

	b, err := sm.Store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !sm.Owns(actor, b) {
		return nil, fmt.Errorf("actor %s may not annotate booking %s: %w", actor.ID, bookingID, models.ErrForbidden)
	}

	return sm.Store.AppendProviderNote(ctx, bookingID, models.ProviderNote{
		Text:    text,
		AddedBy: actor.ID,
		AddedAt: sm.Now(),
	})
}
