package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"servio/models"
	"servio/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

func TestAsynqEmailService(t *testing.T) {
	b := models.NewBooking("b1", "c1", "p1", "biz1", decimal.NewFromInt(50), time.Now())
	b.Date, b.Time = "2026-10-20", "10:00"

	q := &fakeEnqueuer{}
	svc := NewAsynqEmailService(q, zap.NewNop())

	require.NoError(t, svc.SendBookingConfirmation(context.Background(), b))
	require.NoError(t, svc.SendBookingCancellation(context.Background(), b, "sick"))
	require.Len(t, q.tasks, 2)

	p, err := tasks.ParseEmailPayload(q.tasks[1])
	require.NoError(t, err)
	assert.Equal(t, tasks.EmailBookingCancellation, p.Kind)
	assert.Equal(t, "c1", p.RecipientID)
	assert.Equal(t, "sick", p.Data["reason"])
}

func TestAsynqEmailServiceEnqueueError(t *testing.T) {
	b := models.NewBooking("b1", "c1", "p1", "biz1", decimal.NewFromInt(50), time.Now())
	svc := NewAsynqEmailService(&fakeEnqueuer{err: errors.New("redis down")}, zap.NewNop())

	err := svc.SendRescheduleNotice(context.Background(), b, models.RescheduleEntry{NewDate: "2026-10-21"})
	assert.ErrorContains(t, err, "redis down")
}
