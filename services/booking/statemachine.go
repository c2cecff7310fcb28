package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "servio/database/repository/booking"
	"servio/models"
	"servio/services/notification"
	"servio/utils"

	"go.uber.org/zap"
)

// allowed is the booking transition graph. Terminal statuses have no entry.
var allowed = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:    {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed:  {models.BookingInProgress, models.BookingCancelled},
	models.BookingInProgress: {models.BookingCompleted, models.BookingCancelled},
}

// CanTransition reports whether from -> to is an edge of the graph.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedFrom lists the statuses reachable from s.
func AllowedFrom(s models.BookingStatus) []models.BookingStatus {
	return append([]models.BookingStatus(nil), allowed[s]...)
}

// DefaultOwnership lets admins act on any booking and providers act on
// bookings of their business or assigned to them. Customers may only cancel
// their own bookings; see Transition.
func DefaultOwnership(actor models.Actor, b *models.Booking) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.BusinessID != "" && actor.BusinessID == b.BusinessID {
		return true
	}
	return actor.Role == models.RoleProvider && actor.ID == b.ProviderID
}

// StateMachine applies booking lifecycle changes.
type StateMachine struct {
	Store      Store
	Audit      AuditLog
	Emails     notification.EmailService
	Sink       notification.NotificationSink
	OnComplete CompletionHook
	Owns       OwnershipPredicate
	Logger     *zap.Logger
	Metrics    *utils.Metrics
	Now        func() time.Time

	// SideEffectTimeout bounds post-commit work detached from the request.
	SideEffectTimeout time.Duration
}

func NewStateMachine(store Store, audit AuditLog, emails notification.EmailService, sink notification.NotificationSink, onComplete CompletionHook, logger *zap.Logger, metrics *utils.Metrics) *StateMachine {
	return &StateMachine{
		Store:             store,
		Audit:             audit,
		Emails:            emails,
		Sink:              sink,
		OnComplete:        onComplete,
		Owns:              DefaultOwnership,
		Logger:            logger,
		Metrics:           metrics,
		Now:               func() time.Time { return time.Now().UTC() },
		SideEffectTimeout: 15 * time.Second,
	}
}

func (sm *StateMachine) canAct(actor models.Actor, b *models.Booking, requested models.BookingStatus) bool {
	if sm.Owns(actor, b) {
		return true
	}
	return requested == models.BookingCancelled &&
		actor.Role == models.RoleCustomer && actor.ID == b.CustomerID
}

// Transition moves a booking to req.Status. The write is conditioned on the
// status that was validated; losing a race returns
// models.ErrConcurrentModification and leaves the winner's write in place.
func (sm *StateMachine) Transition(ctx context.Context, req TransitionRequest) (*models.Booking, error) {
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, req.Status)
	}

	current, err := sm.Store.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !sm.canAct(req.Actor, current, req.Status) {
		return nil, fmt.Errorf("actor %s may not change booking %s: %w", req.Actor.ID, current.ID, models.ErrForbidden)
	}

	from := current.Status
	if !CanTransition(from, req.Status) {
		sm.Metrics.ObserveTransition(string(from), string(req.Status), "invalid")
		return nil, &InvalidTransitionError{Current: from, Requested: req.Status}
	}

	updated, err := sm.Store.UpdateStatus(ctx, bookingRepo.StatusUpdate{
		BookingID:          current.ID,
		Expected:           from,
		Next:               req.Status,
		UpdatedBy:          req.Actor.ID,
		CancellationReason: req.Reason,
		At:                 sm.Now(),
	})
	if err != nil {
		result := "error"
		if errors.Is(err, models.ErrConcurrentModification) {
			result = "conflict"
		}
		sm.Metrics.ObserveTransition(string(from), string(req.Status), result)
		return nil, err
	}
	sm.Metrics.ObserveTransition(string(from), string(req.Status), "applied")

	sm.Logger.Info("booking status changed",
		zap.String("bookingId", updated.ID),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)),
		zap.String("changedBy", req.Actor.ID))

	sm.afterTransition(ctx, from, updated, req)
	return updated, nil
}
