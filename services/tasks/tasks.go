package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeEmailSend       = "email:send"
	TypeTierRecompute   = "tier:recompute"
	TypeTierMigrate     = "tier:migrate"
	TypeBookingComplete = "booking:complete"
)

// Queue names and their weights in the worker.
const (
	QueueDefault       = "default"
	QueueNotifications = "notifications"
	QueueMaintenance   = "maintenance"
)

// Enqueuer is the subset of *asynq.Client used by producers.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Email kinds carried by EmailPayload.
const (
	EmailBookingConfirmation = "booking_confirmation"
	EmailBookingCancellation = "booking_cancellation"
	EmailRescheduleNotice    = "reschedule_notice"
)

type EmailPayload struct {
	Kind        string            `json:"kind"`
	BookingID   string            `json:"bookingId"`
	RecipientID string            `json:"recipientId"`
	Data        map[string]string `json:"data,omitempty"`
}

// BookingCompletePayload names a COMPLETED booking whose transaction must be recorded.
type BookingCompletePayload struct {
	BookingID string `json:"bookingId"`
}

type TierRecomputePayload struct {
	ProviderID string `json:"providerId"`
	Reason     string `json:"reason,omitempty"`
}

func NewEmailTask(p EmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeEmailSend, b)
	opts := []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}

// NewTierRecomputeTask builds a recompute task. Recomputes for the same
// provider within a minute collapse into one.
func NewTierRecomputeTask(p TierRecomputePayload) (*asynq.Task, []asynq.Option, error) {
	if p.ProviderID == "" {
		return nil, nil, fmt.Errorf("tier recompute task: provider id is required")
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeTierRecompute, b)
	opts := []asynq.Option{
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Unique(time.Minute),
	}
	return task, opts, nil
}

// NewBookingCompleteTask builds the task that records a completed booking's
// transaction. The task id is derived from the booking so a booking is queued
// at most once while the task is retained.
func NewBookingCompleteTask(p BookingCompletePayload) (*asynq.Task, []asynq.Option, error) {
	if p.BookingID == "" {
		return nil, nil, fmt.Errorf("booking complete task: booking id is required")
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingComplete, b)
	opts := []asynq.Option{
		asynq.Queue(QueueDefault),
		asynq.TaskID("booking-complete:" + p.BookingID),
		asynq.MaxRetry(25),
		asynq.Timeout(time.Minute),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

func NewTierMigrateTask() (*asynq.Task, []asynq.Option) {
	task := asynq.NewTask(TypeTierMigrate, nil)
	opts := []asynq.Option{
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(30 * time.Minute),
	}
	return task, opts
}

func ParseEmailPayload(task *asynq.Task) (EmailPayload, error) {
	var p EmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid email payload: %w", err)
	}
	return p, nil
}

func ParseTierRecomputePayload(task *asynq.Task) (TierRecomputePayload, error) {
	var p TierRecomputePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid tier recompute payload: %w", err)
	}
	return p, nil
}

func ParseBookingCompletePayload(task *asynq.Task) (BookingCompletePayload, error) {
	var p BookingCompletePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid booking complete payload: %w", err)
	}
	return p, nil
}
