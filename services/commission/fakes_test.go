package commission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"servio/models"

	"github.com/hibiken/asynq"
)

type memConfigStore struct {
	mu      sync.Mutex
	cfg     *models.CommissionConfig
	history []models.CommissionRateChange
	saves   int
}

func (s *memConfigStore) GetConfig(ctx context.Context) (*models.CommissionConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return nil, models.ErrNotFound
	}
	cp := *s.cfg
	cp.Rates = copyRates(s.cfg.Rates)
	return &cp, nil
}

func (s *memConfigStore) SaveRates(ctx context.Context, cfg *models.CommissionConfig, expectedVersion int64, changes []models.CommissionRateChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var current int64
	if s.cfg != nil {
		current = s.cfg.Version
	}
	if current != expectedVersion {
		return models.ErrConcurrentModification
	}
	cp := *cfg
	cp.Rates = copyRates(cfg.Rates)
	s.cfg = &cp
	s.history = append(s.history, changes...)
	s.saves++
	return nil
}

func (s *memConfigStore) History(ctx context.Context, tier models.Tier, limit int) ([]models.CommissionRateChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CommissionRateChange
	for i := len(s.history) - 1; i >= 0; i-- {
		if tier == "" || s.history[i].Tier == tier {
			out = append(out, s.history[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type chanLocker struct {
	ch   chan struct{}
	fail bool
}

func newChanLocker() *chanLocker { return &chanLocker{ch: make(chan struct{}, 1)} }

func (l *chanLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if l.fail {
		return nil, errors.New("lock not acquired")
	}
	select {
	case l.ch <- struct{}{}:
		return func() { <-l.ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type memTxStore struct {
	mu   sync.Mutex
	byID map[string]*models.PaymentTransaction
}

func newMemTxStore() *memTxStore {
	return &memTxStore{byID: map[string]*models.PaymentTransaction{}}
}

func (s *memTxStore) CreateOnce(ctx context.Context, tx *models.PaymentTransaction) (*models.PaymentTransaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.BookingID == tx.BookingID {
			return existing, false, nil
		}
	}
	s.byID[tx.ID] = tx
	return tx, true, nil
}

func (s *memTxStore) GetByBookingID(ctx context.Context, bookingID string) (*models.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.byID {
		if tx.BookingID == bookingID {
			return tx, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memTxStore) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, at time.Time) (*models.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
	}
	tx.PaymentStatus = status
	tx.UpdatedAt = at
	return tx, nil
}

type staticTiers map[string]models.Tier

func (s staticTiers) Current(ctx context.Context, providerID string) (*models.ProviderTierState, bool, error) {
	t, ok := s[providerID]
	if !ok {
		return &models.ProviderTierState{ProviderID: providerID, Tier: models.TierNew}, false, nil
	}
	return &models.ProviderTierState{ProviderID: providerID, Tier: t}, true, nil
}

type fakeGateway struct {
	calls  int
	err    error
	result ChargeResult
}

func (g *fakeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	res := g.result
	return &res, nil
}

type fakeQueue struct {
	mu    sync.Mutex
	types []string
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return nil, q.err
	}
	q.types = append(q.types, task.Type())
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: fmt.Sprintf("t%d", len(q.types)), Type: task.Type()}, nil
}
