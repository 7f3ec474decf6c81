package repository

import (
	"errors"
	"time"

	"github.com/fournil-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface. It also owns the
// order's lines, status history and modification trail since those never
// exist apart from their order.
type OrderRepository interface {
	Create(order *models.Order, lines []models.OrderLine) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListForProduction(start, end time.Time) ([]models.Order, error)
	ListForDelivery(date time.Time, shopID uint) ([]models.Order, error)
	UpdateWithVersion(id uint, version uint, updates map[string]interface{}) (int64, error)
	CreateLines(lines []models.OrderLine) error
	UpdateLine(id uint, updates map[string]interface{}) error
	DeleteLines(ids []uint) error
	CreateHistory(entry *models.OrderStatusHistory) error
	ListHistory(orderID uint) ([]models.OrderStatusHistory, error)
	CreateModification(record *models.OrderModification) error
	ListModifications(orderID uint) ([]models.OrderModification, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates the order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create inserts the order and its lines.
func (r *GormOrderRepository) Create(order *models.Order, lines []models.OrderLine) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].OrderID = order.ID
	}
	if len(lines) > 0 {
		if err := r.db.Create(&lines).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches one order with its lines and shop.
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Lines").Preload("Shop").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNumber fetches one order by its public number.
func (r *GormOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Lines").Preload("Shop").
		Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List returns a filtered, paginated order page plus the total count.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})

	if filter.ShopID != 0 {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNumber != "" {
		query = query.Where("order_number = ?", filter.OrderNumber)
	}
	if filter.CustomerSearch != "" {
		like := "%" + filter.CustomerSearch + "%"
		query = query.Where("customer_name LIKE ? OR customer_firstname LIKE ? OR customer_phone LIKE ?", like, like, like)
	}
	if filter.PickupFrom != nil {
		query = query.Where("pickup_date >= ?", *filter.PickupFrom)
	}
	if filter.PickupTo != nil {
		query = query.Where("pickup_date <= ?", *filter.PickupTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Lines").Preload("Shop").Order("pickup_date asc, id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListForProduction returns every order whose pickup date falls in
// [start, end], with lines, in creation order. Status filtering is left to
// the aggregation pass.
func (r *GormOrderRepository) ListForProduction(start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Lines").
		Where("pickup_date >= ? AND pickup_date <= ?", start, end).
		Order("id asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListForDelivery returns every order for one shop on one pickup date.
func (r *GormOrderRepository) ListForDelivery(date time.Time, shopID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Lines").
		Where("pickup_date = ? AND shop_id = ?", date, shopID).
		Order("id asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateWithVersion applies updates only when the stored version still
// matches, bumping the version in the same statement. Returns the number
// of affected rows; zero means a concurrent edit won.
func (r *GormOrderRepository) UpdateWithVersion(id uint, version uint, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["version"] = version + 1
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// CreateLines inserts order lines.
func (r *GormOrderRepository) CreateLines(lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.Create(&lines).Error
}

// UpdateLine updates one order line in place.
func (r *GormOrderRepository) UpdateLine(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.OrderLine{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteLines removes the given order lines.
func (r *GormOrderRepository) DeleteLines(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&models.OrderLine{}).Error
}

// CreateHistory appends one status history entry.
func (r *GormOrderRepository) CreateHistory(entry *models.OrderStatusHistory) error {
	return r.db.Create(entry).Error
}

// ListHistory returns the status ledger for one order, newest first.
func (r *GormOrderRepository) ListHistory(orderID uint) ([]models.OrderStatusHistory, error) {
	var entries []models.OrderStatusHistory
	if err := r.db.Where("order_id = ?", orderID).Order("id desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateModification appends one modification audit record.
func (r *GormOrderRepository) CreateModification(record *models.OrderModification) error {
	return r.db.Create(record).Error
}

// ListModifications returns the modification trail for one order, newest first.
func (r *GormOrderRepository) ListModifications(orderID uint) ([]models.OrderModification, error) {
	var records []models.OrderModification
	if err := r.db.Where("order_id = ?", orderID).Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
