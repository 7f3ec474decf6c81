package repository

import (
	"errors"

	"github.com/fournil-next/internal/models"

	"gorm.io/gorm"
)

// ShopRepository is the shop data access interface.
type ShopRepository interface {
	Create(shop *models.Shop) error
	Update(id uint, updates map[string]interface{}) error
	GetByID(id uint) (*models.Shop, error)
	List(onlyActive bool) ([]models.Shop, error)
}

// GormShopRepository is the GORM implementation.
type GormShopRepository struct {
	db *gorm.DB
}

// NewShopRepository creates the shop repository.
func NewShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// Create inserts a shop.
func (r *GormShopRepository) Create(shop *models.Shop) error {
	return r.db.Create(shop).Error
}

// Update applies field updates to a shop.
func (r *GormShopRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Shop{}).Where("id = ?", id).Updates(updates).Error
}

// GetByID fetches one shop.
func (r *GormShopRepository) GetByID(id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.First(&shop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

// List returns shops, optionally restricted to active ones.
func (r *GormShopRepository) List(onlyActive bool) ([]models.Shop, error) {
	var shops []models.Shop
	query := r.db.Order("sort_order asc, id asc")
	if onlyActive {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}
