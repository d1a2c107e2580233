package store

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"portfolio_admin/internal/services"
	"portfolio_admin/internal/services/dto"
)

// PortfolioStore caches the last successfully fetched portfolio
// collection and tracks loading/error status for consumers. The snapshot
// changes only through the defined transitions: Refresh replaces it,
// Create prepends, Update replaces by id, Remove filters — and only after
// the remote operation succeeded. On failure the last-known-good snapshot
// stays and the error is recorded.
type PortfolioStore struct {
	mu      sync.RWMutex
	items   []*dto.PortfolioResponse
	loading bool
	lastErr string

	svc services.PortfolioService
	db  *gorm.DB
}

func NewPortfolioStore(svc services.PortfolioService, db *gorm.DB) *PortfolioStore {
	return &PortfolioStore{svc: svc, db: db}
}

// Items returns a read-only view of the snapshot.
func (s *PortfolioStore) Items() []*dto.PortfolioResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*dto.PortfolioResponse, len(s.items))
	copy(items, s.items)
	return items
}

// Get returns the cached entry by id.
func (s *PortfolioStore) Get(id string) (*dto.PortfolioResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

func (s *PortfolioStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *PortfolioStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Refresh re-reads the whole collection. Concurrent calls are not
// deduplicated; whichever completes last wins the snapshot.
func (s *PortfolioStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	items, err := s.svc.FetchAll(ctx, s.db)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
		return err
	}
	s.items = items
	return nil
}

// FetchOne reads a single entity from the remote store, bypassing the
// snapshot. Used for canonical reads where the cache may be stale or cold.
func (s *PortfolioStore) FetchOne(ctx context.Context, id string) (*dto.PortfolioResponse, error) {
	return s.svc.FetchOne(ctx, s.db, id)
}

// FetchFeatured reads published featured portfolios; limit <= 0 means no cap.
func (s *PortfolioStore) FetchFeatured(ctx context.Context, limit int) ([]*dto.PortfolioResponse, error) {
	return s.svc.FetchFeatured(ctx, s.db, limit)
}

// Create persists a new portfolio and prepends it to the snapshot.
func (s *PortfolioStore) Create(ctx context.Context, input dto.PortfolioInput, opts *dto.CreatePortfolioOptions) (*dto.PortfolioResponse, error) {
	created, err := s.svc.Create(ctx, s.db, input, opts)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
	s.items = append([]*dto.PortfolioResponse{created}, s.items...)
	return created, nil
}

// Update persists changes and replaces the matching snapshot entry.
func (s *PortfolioStore) Update(ctx context.Context, id string, input dto.PortfolioInput, opts *dto.UpdatePortfolioOptions) (*dto.PortfolioResponse, error) {
	updated, err := s.svc.Update(ctx, s.db, id, input, opts)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
	for i, item := range s.items {
		if item.ID == id {
			s.items[i] = updated
			break
		}
	}
	return updated, nil
}

// Remove deletes the entity and filters it out of the snapshot.
func (s *PortfolioStore) Remove(ctx context.Context, item *dto.PortfolioResponse) error {
	if err := s.svc.Delete(ctx, s.db, item); err != nil {
		s.recordError(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
	filtered := s.items[:0]
	for _, entry := range s.items {
		if entry.ID != item.ID {
			filtered = append(filtered, entry)
		}
	}
	s.items = filtered
	return nil
}

func (s *PortfolioStore) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err.Error()
}
