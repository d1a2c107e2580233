package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"portfolio_admin/internal/models"
	"portfolio_admin/internal/repositories"
	"portfolio_admin/internal/services/dto"
)

// sequentialKeys numbers generated ids deterministically. Safe for the
// concurrent upload step.
func sequentialKeys() *KeyGenerator {
	var mu sync.Mutex
	seq := 0
	return &KeyGenerator{NewID: func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("id%d", seq)
	}}
}

// pngAttachment builds a small decodable upload.
func pngAttachment(t *testing.T, filename string) *dto.FileAttachment {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return &dto.FileAttachment{
		Filename:    filename,
		ContentType: "image/png",
		Reader:      bytes.NewReader(buf.Bytes()),
	}
}

// fakeStorage is an in-memory Storage. Saves of keys listed in failSuffixes
// fail, which lets a test break one upload of a concurrent batch
// deterministically (keys keep the original file extension).
type fakeStorage struct {
	mu           sync.Mutex
	blobs        map[string][]byte
	deleted      []string
	failSuffixes []string
	failDeletes  bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: make(map[string][]byte)}
}

const fakeStorageBase = "https://cdn.test/uploads"

func (s *fakeStorage) Save(ctx context.Context, key string, reader io.Reader, contentType string) error {
	for _, suffix := range s.failSuffixes {
		if strings.HasSuffix(key, suffix) {
			return fmt.Errorf("upload rejected: %s", key)
		}
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = content
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	if s.failDeletes {
		return fmt.Errorf("delete rejected: %s", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) DeleteAll(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[key]
	return ok, nil
}

func (s *fakeStorage) GetURL(ctx context.Context, key string) (string, error) {
	return fakeStorageBase + "/" + key, nil
}

func (s *fakeStorage) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, fakeStorageBase+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, fakeStorageBase+"/"), true
}

func (s *fakeStorage) blobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

func (s *fakeStorage) deletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, len(s.deleted))
	copy(keys, s.deleted)
	return keys
}

// fakePortfolioRepo keeps rows in memory. Each mutating method commits
// independently, mirroring the per-statement commit behaviour the services
// are built around.
type fakePortfolioRepo struct {
	mu         sync.Mutex
	seq        int
	portfolios map[string]*models.Portfolio
	images     map[string]*models.PortfolioImage
	joins      map[string][]string

	failCreateImages bool
	failReplaceJoins bool
	failUpdateFields bool
	findAllErr       error
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{
		portfolios: make(map[string]*models.Portfolio),
		images:     make(map[string]*models.PortfolioImage),
		joins:      make(map[string][]string),
	}
}

func (r *fakePortfolioRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *fakePortfolioRepo) Create(db *gorm.DB, p *models.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = r.nextID("p")
	}
	stored := *p
	r.portfolios[p.ID] = &stored
	return nil
}

func (r *fakePortfolioRepo) FindByID(db *gorm.DB, id string) (*models.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.portfolios[id]
	if !ok {
		return nil, repositories.ErrPortfolioNotFound
	}
	return r.assemble(p), nil
}

func (r *fakePortfolioRepo) FindAll(db *gorm.DB) ([]models.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findAllErr != nil {
		return nil, r.findAllErr
	}
	items := make([]models.Portfolio, 0, len(r.portfolios))
	for _, p := range r.portfolios {
		items = append(items, *r.assemble(p))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakePortfolioRepo) FindFeatured(db *gorm.DB, limit int) ([]models.Portfolio, error) {
	items, err := r.FindAll(db)
	if err != nil {
		return nil, err
	}
	featured := make([]models.Portfolio, 0, len(items))
	for _, p := range items {
		if p.Featured && p.Status == models.PortfolioStatusPublished {
			featured = append(featured, p)
		}
	}
	if limit > 0 && len(featured) > limit {
		featured = featured[:limit]
	}
	return featured, nil
}

func (r *fakePortfolioRepo) UpdateFields(db *gorm.DB, id string, input *models.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdateFields {
		return fmt.Errorf("row update rejected")
	}
	p, ok := r.portfolios[id]
	if !ok {
		return repositories.ErrPortfolioNotFound
	}
	p.Title = input.Title
	p.Slug = input.Slug
	p.Summary = input.Summary
	p.Content = input.Content
	p.LinkDemo = input.LinkDemo
	p.LinkGithub = input.LinkGithub
	p.Status = input.Status
	p.Featured = input.Featured
	return nil
}

func (r *fakePortfolioRepo) Delete(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.portfolios[id]; !ok {
		return repositories.ErrPortfolioNotFound
	}
	delete(r.portfolios, id)
	for imgID, img := range r.images {
		if img.PortfolioID == id {
			delete(r.images, imgID)
		}
	}
	delete(r.joins, id)
	return nil
}

func (r *fakePortfolioRepo) CreateImages(db *gorm.DB, images []models.PortfolioImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreateImages {
		return fmt.Errorf("image row insert rejected")
	}
	for i := range images {
		img := images[i]
		if img.ID == "" {
			img.ID = r.nextID("img")
		}
		r.images[img.ID] = &img
	}
	return nil
}

func (r *fakePortfolioRepo) DeleteImages(db *gorm.DB, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.images, id)
	}
	return nil
}

func (r *fakePortfolioRepo) MaxImageSortOrder(db *gorm.DB, portfolioID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	maxOrder := -1
	for _, img := range r.images {
		if img.PortfolioID == portfolioID && img.SortOrder > maxOrder {
			maxOrder = img.SortOrder
		}
	}
	return maxOrder, nil
}

func (r *fakePortfolioRepo) ReplaceTechStacks(db *gorm.DB, portfolioID string, techStackIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failReplaceJoins {
		return fmt.Errorf("join replace rejected")
	}
	r.joins[portfolioID] = append([]string(nil), techStackIDs...)
	return nil
}

// assemble mirrors the eager-loaded read shape: images by sort order,
// related stacks by name.
func (r *fakePortfolioRepo) assemble(p *models.Portfolio) *models.Portfolio {
	assembled := *p
	assembled.Images = nil
	for _, img := range r.images {
		if img.PortfolioID == p.ID {
			assembled.Images = append(assembled.Images, *img)
		}
	}
	sort.Slice(assembled.Images, func(i, j int) bool {
		return assembled.Images[i].SortOrder < assembled.Images[j].SortOrder
	})

	assembled.TechStacks = nil
	for _, tsID := range r.joins[p.ID] {
		assembled.TechStacks = append(assembled.TechStacks, models.TechStack{
			BaseModel: models.BaseModel{ID: tsID},
			Name:      tsID,
		})
	}
	return &assembled
}

func (r *fakePortfolioRepo) imageRows(portfolioID string) []models.PortfolioImage {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]models.PortfolioImage, 0)
	for _, img := range r.images {
		if img.PortfolioID == portfolioID {
			rows = append(rows, *img)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SortOrder < rows[j].SortOrder })
	return rows
}

func (r *fakePortfolioRepo) rowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.portfolios)
}

// fakeTechStackRepo keeps tech-stack rows in memory. onCreate observes the
// moment of the row insert, which lets tests assert ordering against the
// icon upload.
type fakeTechStackRepo struct {
	mu     sync.Mutex
	seq    int
	stacks map[string]*models.TechStack

	onCreate         func()
	failUpdateFields bool
}

func newFakeTechStackRepo() *fakeTechStackRepo {
	return &fakeTechStackRepo{stacks: make(map[string]*models.TechStack)}
}

func (r *fakeTechStackRepo) Create(db *gorm.DB, ts *models.TechStack) error {
	if r.onCreate != nil {
		r.onCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if ts.ID == "" {
		r.seq++
		ts.ID = fmt.Sprintf("ts-%d", r.seq)
	}
	stored := *ts
	r.stacks[ts.ID] = &stored
	return nil
}

func (r *fakeTechStackRepo) FindByID(db *gorm.DB, id string) (*models.TechStack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts, ok := r.stacks[id]
	if !ok {
		return nil, repositories.ErrTechStackNotFound
	}
	found := *ts
	return &found, nil
}

func (r *fakeTechStackRepo) FindAll(db *gorm.DB) ([]models.TechStack, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]models.TechStack, 0, len(r.stacks))
	for _, ts := range r.stacks {
		items = append(items, *ts)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *fakeTechStackRepo) UpdateFields(db *gorm.DB, id string, input *models.TechStack) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdateFields {
		return fmt.Errorf("row update rejected")
	}
	ts, ok := r.stacks[id]
	if !ok {
		return repositories.ErrTechStackNotFound
	}
	ts.Name = input.Name
	ts.IconKind = input.IconKind
	ts.Source = input.Source
	return nil
}

func (r *fakeTechStackRepo) Delete(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stacks[id]; !ok {
		return repositories.ErrTechStackNotFound
	}
	delete(r.stacks, id)
	return nil
}
