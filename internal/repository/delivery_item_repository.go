package repository

import (
	"errors"
	"time"

	"github.com/fournil-next/internal/models"

	"gorm.io/gorm"
)

// DeliveryItemRepository is the delivery checklist data access interface.
type DeliveryItemRepository interface {
	Get(date time.Time, shopID uint, productName string) (*models.DeliveryItem, error)
	ListByDateAndShop(date time.Time, shopID uint) ([]models.DeliveryItem, error)
	Upsert(date time.Time, shopID uint, productName string, checked bool) (*models.DeliveryItem, error)
	WithTx(tx *gorm.DB) *GormDeliveryItemRepository
}

// GormDeliveryItemRepository is the GORM implementation.
type GormDeliveryItemRepository struct {
	db *gorm.DB
}

// NewDeliveryItemRepository creates the delivery item repository.
func NewDeliveryItemRepository(db *gorm.DB) *GormDeliveryItemRepository {
	return &GormDeliveryItemRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormDeliveryItemRepository) WithTx(tx *gorm.DB) *GormDeliveryItemRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryItemRepository{db: tx}
}

// Get fetches one checklist row by its (date, shop, product) key.
func (r *GormDeliveryItemRepository) Get(date time.Time, shopID uint, productName string) (*models.DeliveryItem, error) {
	var item models.DeliveryItem
	if err := r.db.
		Where("delivery_date = ? AND shop_id = ? AND product_name = ?", date, shopID, productName).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByDateAndShop returns every checklist row for one shop and date.
func (r *GormDeliveryItemRepository) ListByDateAndShop(date time.Time, shopID uint) ([]models.DeliveryItem, error) {
	var items []models.DeliveryItem
	if err := r.db.
		Where("delivery_date = ? AND shop_id = ?", date, shopID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert creates the checklist row on first use, then flips the flag.
// Rows are never pre-populated; a missing row means "unchecked".
func (r *GormDeliveryItemRepository) Upsert(date time.Time, shopID uint, productName string, checked bool) (*models.DeliveryItem, error) {
	existing, err := r.Get(date, shopID, productName)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		item := models.DeliveryItem{
			DeliveryDate: date,
			ShopID:       shopID,
			ProductName:  productName,
			Checked:      checked,
		}
		if err := r.db.Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	}
	if existing.Checked != checked {
		if err := r.db.Model(existing).Update("checked", checked).Error; err != nil {
			return nil, err
		}
		existing.Checked = checked
	}
	return existing, nil
}
