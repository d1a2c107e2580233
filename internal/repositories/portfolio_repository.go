package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"portfolio_admin/internal/models"
)

var (
	ErrPortfolioNotFound = errors.New("portfolio not found")
)

// PortfolioRepository is the relational half of the remote store surface
// for portfolios. Every method takes the db handle as a parameter; each
// call commits independently — the sync engine deliberately runs its write
// protocol as separate statements, not one transaction.
type PortfolioRepository interface {
	// Portfolio row operations
	Create(db *gorm.DB, p *models.Portfolio) error
	FindByID(db *gorm.DB, id string) (*models.Portfolio, error)
	FindAll(db *gorm.DB) ([]models.Portfolio, error)
	FindFeatured(db *gorm.DB, limit int) ([]models.Portfolio, error)
	UpdateFields(db *gorm.DB, id string, input *models.Portfolio) error
	Delete(db *gorm.DB, id string) error

	// Owned image rows
	CreateImages(db *gorm.DB, images []models.PortfolioImage) error
	DeleteImages(db *gorm.DB, ids []string) error
	MaxImageSortOrder(db *gorm.DB, portfolioID string) (int, error)

	// Join rows
	ReplaceTechStacks(db *gorm.DB, portfolioID string, techStackIDs []string) error
}

type PortfolioRepositoryImpl struct{}

func NewPortfolioRepository() PortfolioRepository {
	return &PortfolioRepositoryImpl{}
}

// withRelations expands a portfolio query with its owned images (sort
// order ascending) and related tech stacks (name ascending).
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("TechStacks", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		})
}

func (r *PortfolioRepositoryImpl) Create(db *gorm.DB, p *models.Portfolio) error {
	return db.Create(p).Error
}

func (r *PortfolioRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Portfolio, error) {
	var p models.Portfolio
	err := withRelations(db).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PortfolioRepositoryImpl) FindAll(db *gorm.DB) ([]models.Portfolio, error) {
	var items []models.Portfolio
	err := withRelations(db).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *PortfolioRepositoryImpl) FindFeatured(db *gorm.DB, limit int) ([]models.Portfolio, error) {
	var items []models.Portfolio
	query := withRelations(db).
		Where("featured = ? AND status = ?", true, models.PortfolioStatusPublished).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&items).Error
	return items, err
}

func (r *PortfolioRepositoryImpl) UpdateFields(db *gorm.DB, id string, input *models.Portfolio) error {
	result := db.Model(&models.Portfolio{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       input.Title,
		"slug":        input.Slug,
		"summary":     input.Summary,
		"content":     input.Content,
		"link_demo":   input.LinkDemo,
		"link_github": input.LinkGithub,
		"status":      input.Status,
		"featured":    input.Featured,
		"updated_at":  time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

func (r *PortfolioRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Portfolio{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

func (r *PortfolioRepositoryImpl) CreateImages(db *gorm.DB, images []models.PortfolioImage) error {
	if len(images) == 0 {
		return nil
	}
	return db.Create(&images).Error
}

func (r *PortfolioRepositoryImpl) DeleteImages(db *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Where("id IN ?", ids).Delete(&models.PortfolioImage{}).Error
}

func (r *PortfolioRepositoryImpl) MaxImageSortOrder(db *gorm.DB, portfolioID string) (int, error) {
	var maxOrder int
	err := db.Model(&models.PortfolioImage{}).
		Where("portfolio_id = ?", portfolioID).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&maxOrder).Error
	return maxOrder, err
}

// ReplaceTechStacks fully replaces the join-row set: delete-all, then
// insert-all. Selections are small, so this is preferred over diffing.
func (r *PortfolioRepositoryImpl) ReplaceTechStacks(db *gorm.DB, portfolioID string, techStackIDs []string) error {
	if err := db.Where("portfolio_id = ?", portfolioID).
		Delete(&models.PortfolioTechStack{}).Error; err != nil {
		return err
	}

	if len(techStackIDs) == 0 {
		return nil
	}

	rows := make([]models.PortfolioTechStack, 0, len(techStackIDs))
	for _, techStackID := range techStackIDs {
		rows = append(rows, models.PortfolioTechStack{
			PortfolioID: portfolioID,
			TechStackID: techStackID,
		})
	}
	return db.Create(&rows).Error
}
