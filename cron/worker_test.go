package cron

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"servio/models"
	"servio/services/tasks"
	"servio/services/tier"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingMailer struct {
	got []tasks.EmailPayload
	err error
}

func (m *recordingMailer) Deliver(_ context.Context, p tasks.EmailPayload) error {
	m.got = append(m.got, p)
	return m.err
}

type fakeRecomputer struct {
	ids []string
	err error
}

func (f *fakeRecomputer) Recompute(_ context.Context, id string) (*models.ProviderTierState, error) {
	f.ids = append(f.ids, id)
	if f.err != nil {
		return nil, f.err
	}
	return &models.ProviderTierState{ProviderID: id, Tier: models.TierNew}, nil
}

type fakeMigrator struct{ runs int }

func (f *fakeMigrator) MigrateLegacyProviders(context.Context) (*tier.MigrationReport, error) {
	f.runs++
	return &tier.MigrationReport{Errors: []tier.MigrationError{}}, nil
}

type memBookings map[string]*models.Booking

func (m memBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
	}
	return b, nil
}

// flakyRecorder fails the first fails calls and records each booking once.
type flakyRecorder struct {
	fails    int
	attempts int
	recorded map[string]*models.PaymentTransaction
}

func (f *flakyRecorder) RecordCompletion(_ context.Context, b *models.Booking) (*models.PaymentTransaction, error) {
	f.attempts++
	if f.fails > 0 {
		f.fails--
		return nil, models.ErrStoreUnavailable
	}
	if tx, ok := f.recorded[b.ID]; ok {
		return tx, nil
	}
	tx := &models.PaymentTransaction{ID: "tx-" + b.ID, BookingID: b.ID}
	f.recorded[b.ID] = tx
	return tx, nil
}

func newDeps() (Deps, *recordingMailer, *fakeRecomputer, *fakeMigrator) {
	m, r, g := &recordingMailer{}, &fakeRecomputer{}, &fakeMigrator{}
	return Deps{
		Mailer:      m,
		Tiers:       r,
		Migrator:    g,
		Bookings:    memBookings{},
		Completions: &flakyRecorder{recorded: map[string]*models.PaymentTransaction{}},
		Logger:      zap.NewNop(),
	}, m, r, g
}

func completeTask(t *testing.T, bookingID string) *asynq.Task {
	t.Helper()
	task, _, err := tasks.NewBookingCompleteTask(tasks.BookingCompletePayload{BookingID: bookingID})
	require.NoError(t, err)
	return task
}

func TestMux_BookingCompleteRetriesUntilRecorded(t *testing.T) {
	d, _, _, _ := newDeps()
	d.Bookings = memBookings{"b1": {ID: "b1", Status: models.BookingCompleted}}
	rec := &flakyRecorder{fails: 1, recorded: map[string]*models.PaymentTransaction{}}
	d.Completions = rec
	mux := NewMux(d)
	task := completeTask(t, "b1")

	err := mux.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, rec.recorded)

	require.NoError(t, mux.ProcessTask(context.Background(), task))
	require.NoError(t, mux.ProcessTask(context.Background(), task), "redelivery is harmless")
	assert.Len(t, rec.recorded, 1)
	assert.Equal(t, 3, rec.attempts)
}

func TestMux_BookingCompleteSkipsStaleTasks(t *testing.T) {
	d, _, _, _ := newDeps()
	d.Bookings = memBookings{"b2": {ID: "b2", Status: models.BookingCancelled}}
	rec := &flakyRecorder{recorded: map[string]*models.PaymentTransaction{}}
	d.Completions = rec
	mux := NewMux(d)

	assert.ErrorIs(t, mux.ProcessTask(context.Background(), completeTask(t, "b2")), asynq.SkipRetry)
	assert.ErrorIs(t, mux.ProcessTask(context.Background(), completeTask(t, "missing")), asynq.SkipRetry)
	assert.ErrorIs(t, mux.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeBookingComplete, []byte("{"))), asynq.SkipRetry)
	assert.Zero(t, rec.attempts)
}

func TestMux_EmailTask(t *testing.T) {
	d, mailer, _, _ := newDeps()
	task, _, err := tasks.NewEmailTask(tasks.EmailPayload{Kind: tasks.EmailBookingConfirmation, BookingID: "b1", RecipientID: "c1"})
	require.NoError(t, err)

	require.NoError(t, NewMux(d).ProcessTask(context.Background(), task))
	require.Len(t, mailer.got, 1)
	assert.Equal(t, "b1", mailer.got[0].BookingID)
}

func TestMux_EmailFailureIsRetried(t *testing.T) {
	d, mailer, _, _ := newDeps()
	mailer.err = errors.New("smtp down")
	task, _, err := tasks.NewEmailTask(tasks.EmailPayload{Kind: tasks.EmailBookingCancellation, BookingID: "b1"})
	require.NoError(t, err)

	err = NewMux(d).ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestMux_MalformedPayloadSkipsRetry(t *testing.T) {
	d, _, _, _ := newDeps()
	err := NewMux(d).ProcessTask(context.Background(), asynq.NewTask(tasks.TypeEmailSend, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestMux_TierRecompute(t *testing.T) {
	d, _, rec, _ := newDeps()
	task, _, err := tasks.NewTierRecomputeTask(tasks.TierRecomputePayload{ProviderID: "p1", Reason: "booking completed"})
	require.NoError(t, err)

	require.NoError(t, NewMux(d).ProcessTask(context.Background(), task))
	assert.Equal(t, []string{"p1"}, rec.ids)

	rec.err = fmt.Errorf("load provider: %w", models.ErrNotFound)
	assert.ErrorIs(t, NewMux(d).ProcessTask(context.Background(), task), asynq.SkipRetry)

	rec.err = models.ErrStoreUnavailable
	err = NewMux(d).ProcessTask(context.Background(), task)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestMux_TierMigrate(t *testing.T) {
	d, _, _, mig := newDeps()
	task, _ := tasks.NewTierMigrateTask()

	require.NoError(t, NewMux(d).ProcessTask(context.Background(), task))
	assert.Equal(t, 1, mig.runs)
}
