package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servio/config"
	"servio/models"
	"servio/services/notification"
	"servio/services/tasks"
	"servio/services/tier"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Recomputer refreshes one provider's tier.
type Recomputer interface {
	Recompute(ctx context.Context, providerID string) (*models.ProviderTierState, error)
}

// Migrator backfills legacy provider tier data.
type Migrator interface {
	MigrateLegacyProviders(ctx context.Context) (*tier.MigrationReport, error)
}

// BookingLoader reads a booking by id.
type BookingLoader interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// CompletionRecorder records the transaction of a completed booking. It must
// be idempotent by booking id since tasks are redelivered on failure.
type CompletionRecorder interface {
	RecordCompletion(ctx context.Context, booking *models.Booking) (*models.PaymentTransaction, error)
}

// Deps are the collaborators background tasks run against.
type Deps struct {
	Mailer      notification.Mailer
	Tiers       Recomputer
	Migrator    Migrator
	Bookings    BookingLoader
	Completions CompletionRecorder
	Logger      *zap.Logger
}

// RedisOpt builds the asynq connection from config.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewMux registers a handler per task type.
func NewMux(d Deps) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeEmailSend, handleEmailTask(d))
	mux.HandleFunc(tasks.TypeTierRecompute, handleTierRecomputeTask(d))
	mux.HandleFunc(tasks.TypeTierMigrate, handleTierMigrateTask(d))
	mux.HandleFunc(tasks.TypeBookingComplete, handleBookingCompleteTask(d))
	return mux
}

// InitWorker runs the async worker in background. The returned func stops it.
func InitWorker(d Deps) func() {
	concurrency := config.AppConfig.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				tasks.QueueNotifications: 6,
				tasks.QueueDefault:       3,
				tasks.QueueMaintenance:   1,
			},
			Logger: d.Logger.Sugar(),
		},
	)
	mux := NewMux(d)

	// Start async worker with retry logic
	go func() {
		d.Logger.Info("starting task worker", zap.Int("concurrency", concurrency))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil || errors.Is(err, asynq.ErrServerClosed) {
				return
			}
			d.Logger.Error("task worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				d.Logger.Fatal("task worker: max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv.Shutdown
}

// InitScheduler registers the periodic tier migration on cronspec.
func InitScheduler(cronspec string, logger *zap.Logger) (func(), error) {
	scheduler := asynq.NewScheduler(RedisOpt(), &asynq.SchedulerOpts{
		Logger:   logger.Sugar(),
		Location: time.UTC,
	})
	task, opts := tasks.NewTierMigrateTask()
	entryID, err := scheduler.Register(cronspec, task, opts...)
	if err != nil {
		return nil, fmt.Errorf("register tier migration %q: %w", cronspec, err)
	}
	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("start scheduler: %w", err)
	}
	logger.Info("tier migration scheduled", zap.String("cron", cronspec), zap.String("entryId", entryID))
	return scheduler.Shutdown, nil
}

func handleEmailTask(d Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseEmailPayload(task)
		if err != nil {
			d.Logger.Error("dropping email task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := d.Mailer.Deliver(ctx, p); err != nil {
			d.Logger.Warn("email delivery failed",
				zap.String("kind", p.Kind),
				zap.String("bookingId", p.BookingID),
				zap.Error(err))
			return err
		}
		return nil
	}
}

func handleTierRecomputeTask(d Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseTierRecomputePayload(task)
		if err != nil || p.ProviderID == "" {
			d.Logger.Error("dropping tier recompute task", zap.Error(err))
			return fmt.Errorf("invalid tier recompute task: %w", asynq.SkipRetry)
		}
		if _, err := d.Tiers.Recompute(ctx, p.ProviderID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				d.Logger.Warn("tier recompute for unknown provider", zap.String("providerId", p.ProviderID))
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			return err
		}
		return nil
	}
}

func handleBookingCompleteTask(d Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseBookingCompletePayload(task)
		if err != nil || p.BookingID == "" {
			d.Logger.Error("dropping booking completion task", zap.Error(err))
			return fmt.Errorf("invalid booking completion task: %w", asynq.SkipRetry)
		}
		b, err := d.Bookings.GetByID(ctx, p.BookingID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				d.Logger.Warn("completion for unknown booking", zap.String("bookingId", p.BookingID))
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			return err
		}
		if b.Status != models.BookingCompleted {
			d.Logger.Warn("completion for booking not completed",
				zap.String("bookingId", b.ID),
				zap.String("status", string(b.Status)))
			return fmt.Errorf("booking %s is %s: %w", b.ID, b.Status, asynq.SkipRetry)
		}
		tx, err := d.Completions.RecordCompletion(ctx, b)
		if err != nil {
			d.Logger.Warn("recording completion failed, will retry",
				zap.String("bookingId", b.ID), zap.Error(err))
			return err
		}
		d.Logger.Debug("booking completion recorded",
			zap.String("bookingId", b.ID), zap.String("transactionId", tx.ID))
		return nil
	}
}

func handleTierMigrateTask(d Deps) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		report, err := d.Migrator.MigrateLegacyProviders(ctx)
		if err != nil {
			return err
		}
		d.Logger.Info("scheduled tier migration finished",
			zap.Int("total", report.Total),
			zap.Int("migrated", report.Migrated),
			zap.Int("errors", len(report.Errors)))
		return nil
	}
}
