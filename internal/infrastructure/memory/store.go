// Package memory provides process-local stores with the same contract as the
// MongoDB adapters. Used by STORE_DRIVER=memory and by tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sngm3741/qr-review/api/internal/domain"
)

// ProfileStore keeps profiles in a map keyed by owner identifier.
type ProfileStore struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
	now      func() time.Time
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]domain.Profile), now: time.Now}
}

// Load returns a copy of the stored profile or domain.ErrNotFound.
func (s *ProfileStore) Load(ctx context.Context, ownerID string) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &profile, nil
}

// Save merges patch into the stored profile, creating it on first save.
func (s *ProfileStore) Save(ctx context.Context, ownerID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	profile, ok := s.profiles[ownerID]
	if !ok {
		profile = domain.DefaultProfile(ownerID)
		profile.CreatedAt = now
	}
	profile = profile.Apply(patch)
	profile.UpdatedAt = now
	s.profiles[ownerID] = profile
	return &profile, nil
}

// CounterStore keeps visit counters in a map keyed by owner identifier.
type CounterStore struct {
	mu       sync.Mutex
	counters map[string]domain.VisitCounters
}

func NewCounterStore() *CounterStore {
	return &CounterStore{counters: make(map[string]domain.VisitCounters)}
}

// RecordVisit creates the counters with ScanCount=1 or increments ScanCount.
func (s *CounterStore) RecordVisit(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	counters, ok := s.counters[ownerID]
	if !ok {
		s.counters[ownerID] = domain.FirstVisitCounters()
		return nil
	}
	counters.ScanCount++
	s.counters[ownerID] = counters
	return nil
}

// Get returns the counters or the zero value. It never creates an entry.
func (s *CounterStore) Get(ctx context.Context, ownerID string) (domain.VisitCounters, error) {
	if err := ctx.Err(); err != nil {
		return domain.VisitCounters{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[ownerID], nil
}

// Exists reports whether a counter entry was ever created for ownerID.
func (s *CounterStore) Exists(ownerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.counters[ownerID]
	return ok
}
