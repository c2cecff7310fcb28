package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingRepo "servio/database/repository/booking"
	"servio/models"
)

type memStore struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	// readBarrier, when set, holds every GetByID until all readers arrived.
	readBarrier *sync.WaitGroup
}

func newMemStore(bookings ...*models.Booking) *memStore {
	s := &memStore{bookings: map[string]models.Booking{}}
	for _, b := range bookings {
		s.bookings[b.ID] = *b
	}
	return s
}

func (s *memStore) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	b, ok := s.bookings[id]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
	}
	if s.readBarrier != nil {
		s.readBarrier.Done()
		s.readBarrier.Wait()
	}
	return &b, nil
}

func (s *memStore) UpdateStatus(ctx context.Context, upd bookingRepo.StatusUpdate) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[upd.BookingID]
	if !ok || b.Status != upd.Expected {
		return nil, models.ErrConcurrentModification
	}
	b.Status = upd.Next
	b.UpdatedAt = upd.At
	b.UpdatedBy = upd.UpdatedBy
	if upd.Next == models.BookingCancelled && upd.CancellationReason != "" {
		b.CancellationReason = upd.CancellationReason
	}
	s.bookings[b.ID] = b
	return &b, nil
}

func (s *memStore) AppendReschedule(ctx context.Context, bookingID string, entry models.RescheduleEntry) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok || b.Status != models.BookingConfirmed || b.Date != entry.OriginalDate || b.Time != entry.OriginalTime {
		return nil, models.ErrConcurrentModification
	}
	b.Date, b.Time = entry.NewDate, entry.NewTime
	b.RescheduleHistory = append(append([]models.RescheduleEntry(nil), b.RescheduleHistory...), entry)
	s.bookings[b.ID] = b
	return &b, nil
}

func (s *memStore) AppendProviderNote(ctx context.Context, bookingID string, note models.ProviderNote) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, models.ErrNotFound
	}
	b.ProviderNotes = append(append([]models.ProviderNote(nil), b.ProviderNotes...), note)
	s.bookings[b.ID] = b
	return &b, nil
}

func (s *memStore) status(id string) models.BookingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id].Status
}

type memAudit struct {
	mu      sync.Mutex
	entries []models.BookingAuditEntry
	err     error
}

func (a *memAudit) Append(ctx context.Context, e models.BookingAuditEntry) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	a.entries = append(a.entries, e)
	return e.ID, nil
}

func (a *memAudit) ListByBooking(ctx context.Context, bookingID string) ([]models.BookingAuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []models.BookingAuditEntry
	for _, e := range a.entries {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingEmails struct {
	mu            sync.Mutex
	confirmations int
	cancellations int
	reschedules   int
	err           error
}

func (e *recordingEmails) SendBookingConfirmation(ctx context.Context, b *models.Booking) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.confirmations++
	return e.err
}

func (e *recordingEmails) SendBookingCancellation(ctx context.Context, b *models.Booking, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancellations++
	return e.err
}

func (e *recordingEmails) SendRescheduleNotice(ctx context.Context, b *models.Booking, entry models.RescheduleEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reschedules++
	return e.err
}

type memSink struct {
	mu    sync.Mutex
	items []models.Notification
	err   error
}

func (s *memSink) Record(ctx context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, n)
	return nil
}

type countingHook struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (h *countingHook) BookingCompleted(ctx context.Context, b *models.Booking) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, b.ID)
	return h.err
}

var errSideEffect = errors.New("downstream unavailable")

var testNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
