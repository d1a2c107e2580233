package store

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"portfolio_admin/internal/services"
	"portfolio_admin/internal/services/dto"
)

// TechStackStore is the tech-stack counterpart of PortfolioStore: same
// snapshot, same transitions, one instance per entity family.
type TechStackStore struct {
	mu      sync.RWMutex
	items   []*dto.TechStackResponse
	loading bool
	lastErr string

	svc services.TechStackService
	db  *gorm.DB
}

func NewTechStackStore(svc services.TechStackService, db *gorm.DB) *TechStackStore {
	return &TechStackStore{svc: svc, db: db}
}

func (s *TechStackStore) Items() []*dto.TechStackResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*dto.TechStackResponse, len(s.items))
	copy(items, s.items)
	return items
}

func (s *TechStackStore) Get(id string) (*dto.TechStackResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

func (s *TechStackStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *TechStackStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *TechStackStore) Refresh(ctx context.Context) error {
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

// FetchOne reads a single entity from the remote store, bypassing the snapshot.
func (s *TechStackStore) FetchOne(ctx context.Context, id string) (*dto.TechStackResponse, error) {
	return s.svc.FetchOne(ctx, s.db, id)
}

func (s *TechStackStore) Create(ctx context.Context, input dto.TechStackInput, opts *dto.CreateTechStackOptions) (*dto.TechStackResponse, error) {
	created, err := s.svc.Create(ctx, s.db, input, opts)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
	s.items = append([]*dto.TechStackResponse{created}, s.items...)
	return created, nil
}

func (s *TechStackStore) Update(ctx context.Context, id string, input dto.TechStackInput, opts *dto.UpdateTechStackOptions) (*dto.TechStackResponse, error) {
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

func (s *TechStackStore) Remove(ctx context.Context, item *dto.TechStackResponse) error {
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

func (s *TechStackStore) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err.Error()
}
