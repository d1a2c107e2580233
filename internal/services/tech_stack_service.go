package services

import (
	"bytes"
	"context"
	"errors"

	"gorm.io/gorm"

	"portfolio_admin/internal/appErrors"
	"portfolio_admin/internal/imageprocessor"
	"portfolio_admin/internal/logger"
	"portfolio_admin/internal/models"
	"portfolio_admin/internal/repositories"
	"portfolio_admin/internal/services/dto"
	"portfolio_admin/internal/storage"
)

// TechStackService runs the tech-stack write protocols. A tech stack owns
// at most one blob: its icon, and only when the icon kind is "image" — an
// "svg" source is inline markup stored in the row itself, never a storage
// object.
type TechStackService interface {
	FetchAll(ctx context.Context, db *gorm.DB) ([]*dto.TechStackResponse, error)
	FetchOne(ctx context.Context, db *gorm.DB, id string) (*dto.TechStackResponse, error)
	Create(ctx context.Context, db *gorm.DB, input dto.TechStackInput, opts *dto.CreateTechStackOptions) (*dto.TechStackResponse, error)
	Update(ctx context.Context, db *gorm.DB, id string, input dto.TechStackInput, opts *dto.UpdateTechStackOptions) (*dto.TechStackResponse, error)
	Delete(ctx context.Context, db *gorm.DB, item *dto.TechStackResponse) error
}

type techStackService struct {
	repo  repositories.TechStackRepository
	icons storage.Storage
	proc  *imageprocessor.Processor
	keys  *KeyGenerator
}

func NewTechStackService(
	repo repositories.TechStackRepository,
	icons storage.Storage,
	proc *imageprocessor.Processor,
	keys *KeyGenerator,
) TechStackService {
	return &techStackService{
		repo:  repo,
		icons: icons,
		proc:  proc,
		keys:  keys,
	}
}

func (s *techStackService) FetchAll(ctx context.Context, db *gorm.DB) ([]*dto.TechStackResponse, error) {
	items, err := s.repo.FindAll(db)
	if err != nil {
		return nil, appErrors.FetchError(err)
	}

	responses := make([]*dto.TechStackResponse, 0, len(items))
	for i := range items {
		responses = append(responses, dto.BuildTechStackResponse(&items[i]))
	}
	return responses, nil
}

func (s *techStackService) FetchOne(ctx context.Context, db *gorm.DB, id string) (*dto.TechStackResponse, error) {
	item, err := s.repo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTechStackNotFound) {
			return nil, appErrors.NotFound("Tech stack")
		}
		return nil, appErrors.FetchError(err)
	}
	return dto.BuildTechStackResponse(item), nil
}

// Create resolves the icon source first — the storage key does not depend
// on the row id, so the upload folds in ahead of the row insert — then
// writes the row and re-fetches the canonical state.
func (s *techStackService) Create(ctx context.Context, db *gorm.DB, input dto.TechStackInput, opts *dto.CreateTechStackOptions) (*dto.TechStackResponse, error) {
	if opts == nil {
		opts = &dto.CreateTechStackOptions{}
	}

	source, err := s.resolveSource(ctx, input, opts.ImageFile, opts.SvgCode)
	if err != nil {
		return nil, err
	}

	row := &models.TechStack{
		Name:     input.Name,
		IconKind: models.IconKind(input.IconKind),
		Source:   source,
	}
	if err := s.repo.Create(db, row); err != nil {
		return nil, appErrors.NewSyncError(appErrors.StepRowWrite, err)
	}

	return s.FetchOne(ctx, db, row.ID)
}

// Update uploads a replacement icon if one is attached, updates the row,
// and only then best-effort releases the previous blob — never before the
// row update succeeds, so a failed update cannot orphan a source that is
// still referenced.
func (s *techStackService) Update(ctx context.Context, db *gorm.DB, id string, input dto.TechStackInput, opts *dto.UpdateTechStackOptions) (*dto.TechStackResponse, error) {
	if opts == nil {
		opts = &dto.UpdateTechStackOptions{}
	}

	source, err := s.resolveSource(ctx, input, opts.ImageFile, opts.SvgCode)
	if err != nil {
		return nil, err
	}

	row := &models.TechStack{
		Name:     input.Name,
		IconKind: models.IconKind(input.IconKind),
		Source:   source,
	}
	if err := s.repo.UpdateFields(db, id, row); err != nil {
		if errors.Is(err, repositories.ErrTechStackNotFound) {
			return nil, appErrors.NotFound("Tech stack")
		}
		return nil, appErrors.NewSyncError(appErrors.StepRowWrite, err)
	}

	if opts.PreviousSource != nil && !sameSource(opts.PreviousSource, source) {
		s.cleanupIcon(ctx, *opts.PreviousSource)
	}

	return s.FetchOne(ctx, db, id)
}

// Delete removes the row, then best-effort removes the icon blob.
func (s *techStackService) Delete(ctx context.Context, db *gorm.DB, item *dto.TechStackResponse) error {
	if err := s.repo.Delete(db, item.ID); err != nil {
		if errors.Is(err, repositories.ErrTechStackNotFound) {
			return appErrors.NotFound("Tech stack")
		}
		return appErrors.NewSyncError(appErrors.StepRowWrite, err)
	}

	if item.Source != nil {
		s.cleanupIcon(ctx, *item.Source)
	}

	return nil
}

// resolveSource derives the source value for the input's icon kind: an
// uploaded icon URL for "image", inline markup for "svg". With nothing
// attached, the normalized input source carries through unchanged.
func (s *techStackService) resolveSource(ctx context.Context, input dto.TechStackInput, imageFile *dto.FileAttachment, svgCode string) (*string, error) {
	switch models.IconKind(input.IconKind) {
	case models.IconKindImage:
		if imageFile == nil {
			return input.Source, nil
		}

		prepared, err := s.proc.Prepare(imageFile.Filename, imageFile.Reader, imageprocessor.ProfileIconImage)
		if err != nil {
			return nil, err
		}

		key := s.keys.IconKey(prepared.Filename)
		if err := s.icons.Save(ctx, key, bytes.NewReader(prepared.Content), prepared.ContentType); err != nil {
			return nil, appErrors.NewSyncError(appErrors.StepAssetUpload, err)
		}

		url, err := s.icons.GetURL(ctx, key)
		if err != nil {
			return nil, appErrors.NewSyncError(appErrors.StepAssetUpload, err)
		}
		return &url, nil

	case models.IconKindSvg:
		if svgCode != "" {
			return &svgCode, nil
		}
		return input.Source, nil
	}

	return input.Source, nil
}

// cleanupIcon removes a previously stored icon blob. Inline SVG markup and
// foreign URLs resolve to no key and are skipped; deletion failures are
// logged, never escalated.
func (s *techStackService) cleanupIcon(ctx context.Context, source string) {
	key, ok := s.icons.KeyFromURL(source)
	if !ok {
		return
	}
	if err := s.icons.Delete(ctx, key); err != nil {
		logger.Warn("failed to remove icon blob",
			"key", key,
			"error", err.Error(),
		)
	}
}

func sameSource(a *string, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
