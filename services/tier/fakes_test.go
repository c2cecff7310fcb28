package tier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"servio/models"

	"github.com/shopspring/decimal"
)

// memStore implements every store interface the tier package reads from.
type memStore struct {
	mu        sync.Mutex
	providers map[string]*models.ProviderProfile
	completed map[string]int
	revenue   map[string]decimal.Decimal
	failWrite map[string]bool
	writes    int
}

func newMemStore() *memStore {
	return &memStore{
		providers: map[string]*models.ProviderProfile{},
		completed: map[string]int{},
		revenue:   map[string]decimal.Decimal{},
		failWrite: map[string]bool{},
	}
}

func (s *memStore) CountByProviderAndStatus(ctx context.Context, providerID string, status models.BookingStatus) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status != models.BookingCompleted {
		return 0, nil
	}
	return s.completed[providerID], nil
}

func (s *memStore) SumCompletedPayouts(ctx context.Context, providerID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revenue[providerID], nil
}

func (s *memStore) GetProfile(ctx context.Context, id string) (*models.ProviderProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[id]
	if !ok {
		return nil, fmt.Errorf("provider %s: %w", id, models.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) ReplaceTierState(ctx context.Context, state *models.ProviderTierState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite[state.ProviderID] {
		return errors.New("write failed")
	}
	p, ok := s.providers[state.ProviderID]
	if !ok {
		return models.ErrNotFound
	}
	metrics := state.Metrics
	at := state.TierAssignedAt
	p.ProviderTier = string(state.Tier)
	p.PerformanceMetrics = &metrics
	p.TierAssignedAt = &at
	s.writes++
	return nil
}

func isLegacy(p *models.ProviderProfile) bool {
	return p.ProviderTier == "" || p.ProviderTier == "STANDARD" ||
		p.PerformanceMetrics == nil || p.TierAssignedAt == nil
}

func (s *memStore) FindLegacy(ctx context.Context, limit int) ([]models.ProviderProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProviderProfile
	for _, p := range s.providers {
		if isLegacy(p) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *memStore) CountLegacy(ctx context.Context) (int, error) {
	list, _ := s.FindLegacy(ctx, 0)
	return len(list), nil
}
