package booking

import (
	"context"

	bookingRepo "servio/database/repository/booking"
	"servio/models"
)

// Store is the booking persistence the state machine depends on.
type Store interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, upd bookingRepo.StatusUpdate) (*models.Booking, error)
	AppendReschedule(ctx context.Context, bookingID string, entry models.RescheduleEntry) (*models.Booking, error)
	AppendProviderNote(ctx context.Context, bookingID string, note models.ProviderNote) (*models.Booking, error)
}

// AuditLog keeps the status history of bookings.
type AuditLog interface {
	Append(ctx context.Context, entry models.BookingAuditEntry) (string, error)
	ListByBooking(ctx context.Context, bookingID string) ([]models.BookingAuditEntry, error)
}

// CompletionHook is told about every booking that reaches COMPLETED.
type CompletionHook interface {
	BookingCompleted(ctx context.Context, booking *models.Booking) error
}

// OwnershipPredicate decides whether actor may act on booking.
type OwnershipPredicate func(actor models.Actor, booking *models.Booking) bool

// BookingService is the lifecycle API exposed to handlers.
type BookingService interface {
	Transition(ctx context.Context, req TransitionRequest) (*models.Booking, error)
	Reschedule(ctx context.Context, req RescheduleRequest) (*models.Booking, error)
	AddProviderNote(ctx context.Context, bookingID, text string, actor models.Actor) (*models.Booking, error)
	Get(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
	History(ctx context.Context, bookingID string, actor models.Actor) ([]models.BookingAuditEntry, error)
}

type TransitionRequest struct {
	BookingID string
	Status    models.BookingStatus
	Reason    string
	Actor     models.Actor
}

type RescheduleRequest struct {
	BookingID string
	NewDate   string
	NewTime   string
	Reason    string
	Actor     models.Actor
}
