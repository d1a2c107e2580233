package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"portfolio_admin/internal/models"
)

var (
	ErrTechStackNotFound = errors.New("tech stack not found")
)

type TechStackRepository interface {
	Create(db *gorm.DB, ts *models.TechStack) error
	FindByID(db *gorm.DB, id string) (*models.TechStack, error)
	FindAll(db *gorm.DB) ([]models.TechStack, error)
	UpdateFields(db *gorm.DB, id string, input *models.TechStack) error
	Delete(db *gorm.DB, id string) error
}

type TechStackRepositoryImpl struct{}

func NewTechStackRepository() TechStackRepository {
	return &TechStackRepositoryImpl{}
}

func (r *TechStackRepositoryImpl) Create(db *gorm.DB, ts *models.TechStack) error {
	return db.Create(ts).Error
}

func (r *TechStackRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.TechStack, error) {
	var ts models.TechStack
	err := db.First(&ts, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTechStackNotFound
		}
		return nil, err
	}
	return &ts, nil
}

func (r *TechStackRepositoryImpl) FindAll(db *gorm.DB) ([]models.TechStack, error) {
	var items []models.TechStack
	err := db.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *TechStackRepositoryImpl) UpdateFields(db *gorm.DB, id string, input *models.TechStack) error {
	result := db.Model(&models.TechStack{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":       input.Name,
		"icon_kind":  input.IconKind,
		"source":     input.Source,
		"updated_at": time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTechStackNotFound
	}
	return nil
}

func (r *TechStackRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.TechStack{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTechStackNotFound
	}
	return nil
}
