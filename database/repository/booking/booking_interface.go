package bookingRepo

import (
	"context"
	"time"

	"servio/models"
)

// StatusUpdate describes a compare-and-swap status change.
type StatusUpdate struct {
	BookingID          string
	Expected           models.BookingStatus
	Next               models.BookingStatus
	UpdatedBy          string
	CancellationReason string
	At                 time.Time
}

// BookingRepository defines booking data access used by the lifecycle engine.
type BookingRepository interface {
	// Create inserts a new booking. Bookings are created by the reservation flow.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// UpdateStatus applies the change only if the stored status still equals
	// Expected. A lost race returns models.ErrConcurrentModification.
	UpdateStatus(ctx context.Context, upd StatusUpdate) (*models.Booking, error)
	// AppendReschedule moves the booking to the entry's new date/time and records
	// the entry, conditioned on the booking still being CONFIRMED at the entry's
	// original date/time.
	AppendReschedule(ctx context.Context, bookingID string, entry models.RescheduleEntry) (*models.Booking, error)
	// AppendProviderNote pushes a note onto the booking.
	AppendProviderNote(ctx context.Context, bookingID string, note models.ProviderNote) (*models.Booking, error)
	// CountByProviderAndStatus counts a provider's bookings in one status.
	CountByProviderAndStatus(ctx context.Context, providerID string, status models.BookingStatus) (int, error)
}
