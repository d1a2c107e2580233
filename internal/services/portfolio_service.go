package services

import (
	"bytes"
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"portfolio_admin/internal/appErrors"
	"portfolio_admin/internal/imageprocessor"
	"portfolio_admin/internal/logger"
	"portfolio_admin/internal/models"
	"portfolio_admin/internal/repositories"
	"portfolio_admin/internal/services/dto"
	"portfolio_admin/internal/storage"
)

// PortfolioService runs the portfolio write protocols against the remote
// store: entity row, owned image rows and blobs, and the tech-stack join
// set, persisted as one logical save.
//
// The remote store offers no cross-resource transactions, so every
// protocol is a strictly ordered sequence of independently committed
// steps with no compensating rollback. Create and Update always re-fetch
// and return the canonical entity graph, never a locally assembled one.
type PortfolioService interface {
	FetchAll(ctx context.Context, db *gorm.DB) ([]*dto.PortfolioResponse, error)
	FetchOne(ctx context.Context, db *gorm.DB, id string) (*dto.PortfolioResponse, error)
	FetchFeatured(ctx context.Context, db *gorm.DB, limit int) ([]*dto.PortfolioResponse, error)
	Create(ctx context.Context, db *gorm.DB, input dto.PortfolioInput, opts *dto.CreatePortfolioOptions) (*dto.PortfolioResponse, error)
	Update(ctx context.Context, db *gorm.DB, id string, input dto.PortfolioInput, opts *dto.UpdatePortfolioOptions) (*dto.PortfolioResponse, error)
	Delete(ctx context.Context, db *gorm.DB, item *dto.PortfolioResponse) error
}

type portfolioService struct {
	repo    repositories.PortfolioRepository
	uploads storage.Storage
	proc    *imageprocessor.Processor
	keys    *KeyGenerator
}

func NewPortfolioService(
	repo repositories.PortfolioRepository,
	uploads storage.Storage,
	proc *imageprocessor.Processor,
	keys *KeyGenerator,
) PortfolioService {
	return &portfolioService{
		repo:    repo,
		uploads: uploads,
		proc:    proc,
		keys:    keys,
	}
}

func (s *portfolioService) FetchAll(ctx context.Context, db *gorm.DB) ([]*dto.PortfolioResponse, error) {
	items, err := s.repo.FindAll(db)
	if err != nil {
		return nil, appErrors.FetchError(err)
	}

	responses := make([]*dto.PortfolioResponse, 0, len(items))
	for i := range items {
		responses = append(responses, dto.BuildPortfolioResponse(&items[i]))
	}
	return responses, nil
}

// FetchOne distinguishes "row absent" (NotFound, a non-error outcome for
// the caller to branch on) from transport failure (FetchError).
func (s *portfolioService) FetchOne(ctx context.Context, db *gorm.DB, id string) (*dto.PortfolioResponse, error) {
	item, err := s.repo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPortfolioNotFound) {
			return nil, appErrors.NotFound("Portfolio")
		}
		return nil, appErrors.FetchError(err)
	}
	return dto.BuildPortfolioResponse(item), nil
}

func (s *portfolioService) FetchFeatured(ctx context.Context, db *gorm.DB, limit int) ([]*dto.PortfolioResponse, error) {
	items, err := s.repo.FindFeatured(db, limit)
	if err != nil {
		return nil, appErrors.FetchError(err)
	}

	responses := make([]*dto.PortfolioResponse, 0, len(items))
	for i := range items {
		responses = append(responses, dto.BuildPortfolioResponse(&items[i]))
	}
	return responses, nil
}

// Create protocol, strictly ordered:
//  1. insert the entity row (the generated id feeds every later step)
//  2. prepare + upload attachments (concurrent within the step; any
//     failure fails the step before a single image row is written)
//  3. insert image rows, sort_order = attachment position
//  4. insert join rows for the selected tech stacks
//  5. re-fetch and return the canonical graph
func (s *portfolioService) Create(ctx context.Context, db *gorm.DB, input dto.PortfolioInput, opts *dto.CreatePortfolioOptions) (*dto.PortfolioResponse, error) {
	if opts == nil {
		opts = &dto.CreatePortfolioOptions{}
	}

	row := rowFromInput(input)
	if err := s.repo.Create(db, row); err != nil {
		return nil, appErrors.NewSyncError(appErrors.StepRowWrite, err)
	}

	urls, err := s.uploadImages(ctx, input.Title, opts.Images)
	if err != nil {
		return nil, err
	}

	if len(urls) > 0 {
		images := make([]models.PortfolioImage, 0, len(urls))
		for i, url := range urls {
			images = append(images, models.PortfolioImage{
				PortfolioID: row.ID,
				URL:         url,
				SortOrder:   i,
			})
		}
		if err := s.repo.CreateImages(db, images); err != nil {
			return nil, appErrors.NewSyncError(appErrors.StepImageRowWrite, err)
		}
	}

	if err := s.repo.ReplaceTechStacks(db, row.ID, opts.TechStackIDs); err != nil {
		return nil, appErrors.NewSyncError(appErrors.StepJoinSync, err)
	}

	return s.FetchOne(ctx, db, row.ID)
}

// Update protocol:
//  1. update scalar fields (refreshes the modification timestamp)
//  2. drop removed image rows, then best-effort delete their blobs
//  3. upload new attachments, appended after the existing sort orders
//  4. fully replace the join-row set with the current selection
//  5. re-fetch and return the canonical graph
func (s *portfolioService) Update(ctx context.Context, db *gorm.DB, id string, input dto.PortfolioInput, opts *dto.UpdatePortfolioOptions) (*dto.PortfolioResponse, error) {
	if opts == nil {
		opts = &dto.UpdatePortfolioOptions{}
	}

	if err := s.repo.UpdateFields(db, id, rowFromInput(input)); err != nil {
		if errors.Is(err, repositories.ErrPortfolioNotFound) {
			return nil, appErrors.NotFound("Portfolio")
		}
		return nil, appErrors.NewSyncError(appErrors.StepRowWrite, err)
	}

	if len(opts.RemovedImages) > 0 {
		ids := make([]string, 0, len(opts.RemovedImages))
		urls := make([]string, 0, len(opts.RemovedImages))
		for _, removed := range opts.RemovedImages {
			ids = append(ids, removed.ID)
			urls = append(urls, removed.URL)
		}
		if err := s.repo.DeleteImages(db, ids); err != nil {
			return nil, appErrors.NewSyncError(appErrors.StepImageRowWrite, err)
		}
		// Rows are gone; a dangling blob is a harmless leak.
		s.cleanupBlobs(ctx, urls)
	}

	if len(opts.Images) > 0 {
		maxOrder, err := s.repo.MaxImageSortOrder(db, id)
		if err != nil {
			return nil, appErrors.NewSyncError(appErrors.StepImageRowWrite, err)
		}

		urls, err := s.uploadImages(ctx, input.Title, opts.Images)
		if err != nil {
			return nil, err
		}

		images := make([]models.PortfolioImage, 0, len(urls))
		for i, url := range urls {
			images = append(images, models.PortfolioImage{
				PortfolioID: id,
				URL:         url,
				SortOrder:   maxOrder + 1 + i,
			})
		}
		if err := s.repo.CreateImages(db, images); err != nil {
			return nil, appErrors.NewSyncError(appErrors.StepImageRowWrite, err)
		}
	}

	if err := s.repo.ReplaceTechStacks(db, id, opts.TechStackIDs); err != nil {
		return nil, appErrors.NewSyncError(appErrors.StepJoinSync, err)
	}

	return s.FetchOne(ctx, db, id)
}

// Delete removes the row (join rows cascade with it), then best-effort
// deletes the owned blobs. The row is the source of truth for existence,
// so the operation succeeds once the row delete does.
func (s *portfolioService) Delete(ctx context.Context, db *gorm.DB, item *dto.PortfolioResponse) error {
	if err := s.repo.Delete(db, item.ID); err != nil {
		if errors.Is(err, repositories.ErrPortfolioNotFound) {
			return appErrors.NotFound("Portfolio")
		}
		return appErrors.NewSyncError(appErrors.StepRowWrite, err)
	}

	urls := make([]string, 0, len(item.Images))
	for _, img := range item.Images {
		urls = append(urls, img.URL)
	}
	s.cleanupBlobs(ctx, urls)

	return nil
}

// uploadImages prepares and uploads the attachments concurrently and
// returns their public URLs in input order. If any upload fails, the whole
// step fails and no URL is committed to an image row.
func (s *portfolioService) uploadImages(ctx context.Context, title string, attachments []*dto.FileAttachment) ([]string, error) {
	if len(attachments) == 0 {
		return nil, nil
	}

	urls := make([]string, len(attachments))
	g, gctx := errgroup.WithContext(ctx)

	for i, att := range attachments {
		i, att := i, att
		g.Go(func() error {
			prepared, err := s.proc.Prepare(att.Filename, att.Reader, imageprocessor.ProfilePortfolioImage)
			if err != nil {
				return err
			}

			key := s.keys.PortfolioImageKey(title, prepared.Filename)
			if err := s.uploads.Save(gctx, key, bytes.NewReader(prepared.Content), prepared.ContentType); err != nil {
				return err
			}

			url, err := s.uploads.GetURL(gctx, key)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, appErrors.NewSyncError(appErrors.StepAssetUpload, err)
	}
	return urls, nil
}

// cleanupBlobs resolves public URLs back to storage keys and removes the
// blobs. Failures are logged, never escalated; strings that were never
// storage URLs are skipped.
func (s *portfolioService) cleanupBlobs(ctx context.Context, urls []string) {
	for _, url := range urls {
		key, ok := s.uploads.KeyFromURL(url)
		if !ok {
			continue
		}
		if err := s.uploads.Delete(ctx, key); err != nil {
			logger.Warn("failed to remove portfolio image blob",
				"key", key,
				"error", err.Error(),
			)
		}
	}
}

func rowFromInput(input dto.PortfolioInput) *models.Portfolio {
	return &models.Portfolio{
		Title:      input.Title,
		Slug:       input.Slug,
		Summary:    input.Summary,
		Content:    input.Content,
		LinkDemo:   input.LinkDemo,
		LinkGithub: input.LinkGithub,
		Status:     models.PortfolioStatus(input.Status),
		Featured:   input.Featured,
	}
}
