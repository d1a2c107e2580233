package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"portfolio_admin/internal/services/dto"
)

type fakeTechStackService struct {
	mu       sync.Mutex
	seq      int
	fetchAll []*dto.TechStackResponse
	err      error
}

func (f *fakeTechStackService) FetchAll(ctx context.Context, db *gorm.DB) ([]*dto.TechStackResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.fetchAll, nil
}

func (f *fakeTechStackService) FetchOne(ctx context.Context, db *gorm.DB, id string) (*dto.TechStackResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.fetchAll {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, fmt.Errorf("not found: %s", id)
}

func (f *fakeTechStackService) Create(ctx context.Context, db *gorm.DB, input dto.TechStackInput, opts *dto.CreateTechStackOptions) (*dto.TechStackResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	return &dto.TechStackResponse{ID: fmt.Sprintf("ts-%d", f.seq), Name: input.Name, IconKind: input.IconKind}, nil
}

func (f *fakeTechStackService) Update(ctx context.Context, db *gorm.DB, id string, input dto.TechStackInput, opts *dto.UpdateTechStackOptions) (*dto.TechStackResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dto.TechStackResponse{ID: id, Name: input.Name, IconKind: input.IconKind}, nil
}

func (f *fakeTechStackService) Delete(ctx context.Context, db *gorm.DB, item *dto.TechStackResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func TestTechStackStore_Transitions(t *testing.T) {
	t.Parallel()

	svc := &fakeTechStackService{fetchAll: []*dto.TechStackResponse{
		{ID: "a", Name: "Go"},
		{ID: "b", Name: "Postgres"},
	}}
	s := NewTechStackStore(svc, nil)
	ctx := context.Background()

	require.NoError(t, s.Refresh(ctx))
	require.Len(t, s.Items(), 2)

	created, err := s.Create(ctx, dto.TechStackInput{Name: "Redis", IconKind: "svg"}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, s.Items()[0].ID, "create prepends")

	updated, err := s.Update(ctx, "b", dto.TechStackInput{Name: "PostgreSQL", IconKind: "svg"}, nil)
	require.NoError(t, err)
	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Same(t, updated, got)
	assert.Equal(t, "PostgreSQL", got.Name)

	require.NoError(t, s.Remove(ctx, got))
	_, ok = s.Get("b")
	assert.False(t, ok)
	assert.Len(t, s.Items(), 2)
}

func TestTechStackStore_ErrorKeepsSnapshot(t *testing.T) {
	t.Parallel()

	svc := &fakeTechStackService{fetchAll: []*dto.TechStackResponse{{ID: "a", Name: "Go"}}}
	s := NewTechStackStore(svc, nil)
	require.NoError(t, s.Refresh(context.Background()))

	svc.mu.Lock()
	svc.err = fmt.Errorf("store unreachable")
	svc.mu.Unlock()

	_, err := s.Create(context.Background(), dto.TechStackInput{Name: "Zig", IconKind: "svg"}, nil)
	require.Error(t, err)

	require.Len(t, s.Items(), 1)
	assert.Contains(t, s.LastError(), "store unreachable")
}
