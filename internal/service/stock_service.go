package service

import (
	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/repository"

	"gorm.io/gorm"
)

// StockAdjustment describes one applied stock change.
type StockAdjustment struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Before      int    `json:"before"`
	After       int    `json:"after"`
	Delta       int    `json:"delta"`
}

// StockService reconciles product stock against order lines. Products
// with unlimited stock and products that no longer exist are skipped
// silently; a decrement never drives stock below zero.
type StockService struct {
	productRepo repository.ProductRepository
}

// NewStockService creates the stock service.
func NewStockService(productRepo repository.ProductRepository) *StockService {
	return &StockService{productRepo: productRepo}
}

// Reconcile applies the given direction for every tracked product in the
// lines, returning the applied adjustments. Pass a transaction to make the
// writes part of an enclosing unit of work.
func (s *StockService) Reconcile(tx *gorm.DB, lines []models.OrderLine, direction string) ([]StockAdjustment, error) {
	repo := s.productRepo
	if tx != nil {
		repo = s.productRepo.WithTx(tx)
	}

	// One line per product is the norm, but merged quantities keep the
	// math right if duplicates slip through.
	quantities := make(map[uint]int)
	order := make([]uint, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == 0 || line.Quantity <= 0 {
			continue
		}
		if _, seen := quantities[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		quantities[line.ProductID] += line.Quantity
	}

	var adjustments []StockAdjustment
	for _, productID := range order {
		product, err := repo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			// Deleted products keep their order-line snapshots; there is
			// no stock left to adjust.
			logger.Debugw("stock reconcile skipped missing product", "product_id", productID)
			continue
		}
		if product.UnlimitedStock {
			continue
		}

		before := product.CurrentStock
		after := before
		switch direction {
		case constants.StockDirectionDecrement:
			after = before - quantities[productID]
			if after < 0 {
				after = 0
			}
		case constants.StockDirectionIncrement:
			after = before + quantities[productID]
		}
		if after == before {
			continue
		}

		if err := repo.UpdateStock(product.ID, after); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, StockAdjustment{
			ProductID:   product.ID,
			ProductName: product.Name,
			Before:      before,
			After:       after,
			Delta:       after - before,
		})
	}
	return adjustments, nil
}

// CheckAvailability verifies that every tracked product can satisfy the
// requested quantities, summed across lines. Unlimited and missing
// products pass.
func (s *StockService) CheckAvailability(tx *gorm.DB, lines []models.OrderLine) error {
	repo := s.productRepo
	if tx != nil {
		repo = s.productRepo.WithTx(tx)
	}

	quantities := make(map[uint]int)
	for _, line := range lines {
		quantities[line.ProductID] += line.Quantity
	}
	for productID, quantity := range quantities {
		product, err := repo.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil || product.UnlimitedStock {
			continue
		}
		if product.CurrentStock < quantity {
			return ErrStockInsufficient
		}
	}
	return nil
}

// SetStock writes an absolute stock value for one product.
func (s *StockService) SetStock(productID uint, stock int) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if stock < 0 {
		stock = 0
	}
	if err := s.productRepo.UpdateStock(productID, stock); err != nil {
		return nil, err
	}
	product.CurrentStock = stock
	return product, nil
}
