package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fournil-next/internal/cache"
	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/repository"

	"gorm.io/gorm"
)

// ProductionFilter narrows a production summary.
type ProductionFilter struct {
	Start       time.Time
	End         time.Time
	CategoryID  uint
	EventFilter string // "", "event" or "regular"
}

// ProductionRow is the aggregated quantity for one product over the range.
type ProductionRow struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	IsEvent     bool   `json:"is_event"`
	EventColor  string `json:"event_color,omitempty"`
	EventIcon   string `json:"event_icon,omitempty"`
}

// ChecklistEntry is one order's share of a checklist row.
type ChecklistEntry struct {
	OrderNumber   string `json:"order_number"`
	Quantity      int    `json:"quantity"`
	Customization string `json:"customization,omitempty"`
}

// ChecklistRow is one product entry on a shop's delivery checklist, with
// the per-order breakdown kept for display.
type ChecklistRow struct {
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
	Entries     []ChecklistEntry `json:"entries"`
	Checked     bool             `json:"checked"`
}

// DeliveryChecklist is the loading sheet for one shop on one date.
type DeliveryChecklist struct {
	DeliveryDate string         `json:"delivery_date"`
	ShopID       uint           `json:"shop_id"`
	Rows         []ChecklistRow `json:"rows"`
	AllChecked   bool           `json:"all_checked"`
}

// AggregationService derives production summaries and delivery checklists
// from live orders. Cancelled orders never contribute.
type AggregationService struct {
	db           *gorm.DB
	orderRepo    repository.OrderRepository
	prodRepo     repository.ProductRepository
	deliveryRepo repository.DeliveryItemRepository
	cache        *cache.Cache
	cacheTTL     time.Duration
}

// NewAggregationService creates the aggregation service. The cache may be
// nil; summaries are then computed on every call.
func NewAggregationService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	prodRepo repository.ProductRepository,
	deliveryRepo repository.DeliveryItemRepository,
	c *cache.Cache,
	cacheTTL time.Duration,
) *AggregationService {
	return &AggregationService{
		db:           db,
		orderRepo:    orderRepo,
		prodRepo:     prodRepo,
		deliveryRepo: deliveryRepo,
		cache:        c,
		cacheTTL:     cacheTTL,
	}
}

// ProductionSummary aggregates quantities per product for every
// non-cancelled order whose pickup date falls in the range, sorted by
// quantity descending with first-appearance order breaking ties.
func (s *AggregationService) ProductionSummary(ctx context.Context, filter ProductionFilter) ([]ProductionRow, error) {
	cacheKey := fmt.Sprintf("production:%s:%s:%d:%s",
		filter.Start.Format("2006-01-02"),
		filter.End.Format("2006-01-02"),
		filter.CategoryID,
		filter.EventFilter,
	)
	var cached []ProductionRow
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.Warnw("production summary cache read failed", "error", err)
	}

	orders, err := s.orderRepo.ListForProduction(models.DateOnly(filter.Start), models.DateOnly(filter.End))
	if err != nil {
		return nil, err
	}

	// Event and category attributes come from the live catalog, not the
	// line snapshots.
	productIDs := make(map[uint]bool)
	for _, order := range orders {
		if order.Status == constants.OrderStatusCancelled {
			continue
		}
		for _, line := range order.Lines {
			productIDs[line.ProductID] = true
		}
	}
	ids := make([]uint, 0, len(productIDs))
	for id := range productIDs {
		ids = append(ids, id)
	}
	products, err := s.prodRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	catalog := make(map[uint]*models.Product, len(products))
	for i := range products {
		catalog[products[i].ID] = &products[i]
	}

	type accumulator struct {
		row   ProductionRow
		order int
	}
	totals := make(map[string]*accumulator)
	next := 0
	for _, order := range orders {
		if order.Status == constants.OrderStatusCancelled {
			continue
		}
		for _, line := range order.Lines {
			product := catalog[line.ProductID]
			if filter.CategoryID != 0 {
				if product == nil || product.CategoryID != filter.CategoryID {
					continue
				}
			}
			isEvent := productIsEvent(product)
			switch filter.EventFilter {
			case constants.EventFilterEvent:
				if !isEvent {
					continue
				}
			case constants.EventFilterRegular:
				if isEvent {
					continue
				}
			}

			// Keyed by the snapshot name: lines booked under an old name
			// of a renamed product stay a distinct production row.
			acc, ok := totals[line.ProductName]
			if !ok {
				row := ProductionRow{
					ProductID:   line.ProductID,
					ProductName: line.ProductName,
					IsEvent:     isEvent,
				}
				if product != nil {
					row.EventColor, row.EventIcon = eventAppearance(product)
				}
				acc = &accumulator{row: row, order: next}
				next++
				totals[line.ProductName] = acc
			}
			acc.row.Quantity += line.Quantity
		}
	}

	accs := make([]*accumulator, 0, len(totals))
	for _, acc := range totals {
		accs = append(accs, acc)
	}
	sort.SliceStable(accs, func(i, j int) bool {
		if accs[i].row.Quantity != accs[j].row.Quantity {
			return accs[i].row.Quantity > accs[j].row.Quantity
		}
		return accs[i].order < accs[j].order
	})
	rows := make([]ProductionRow, len(accs))
	for i, acc := range accs {
		rows[i] = acc.row
	}

	if err := s.cache.SetJSON(ctx, cacheKey, rows, s.cacheTTL); err != nil {
		logger.Warnw("production summary cache write failed", "error", err)
	}
	return rows, nil
}

// Checklist builds the loading sheet for one shop and date, merging order
// quantities with the stored check flags.
func (s *AggregationService) Checklist(date time.Time, shopID uint) (*DeliveryChecklist, error) {
	day := models.DateOnly(date)
	orders, err := s.orderRepo.ListForDelivery(day, shopID)
	if err != nil {
		return nil, err
	}

	checked := make(map[string]bool)
	items, err := s.deliveryRepo.ListByDateAndShop(day, shopID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		checked[item.ProductName] = item.Checked
	}

	index := make(map[string]int)
	var rows []ChecklistRow
	for _, order := range orders {
		if order.Status == constants.OrderStatusCancelled {
			continue
		}
		for _, line := range order.Lines {
			i, ok := index[line.ProductName]
			if !ok {
				i = len(rows)
				index[line.ProductName] = i
				rows = append(rows, ChecklistRow{
					ProductName: line.ProductName,
					Checked:     checked[line.ProductName],
				})
			}
			rows[i].Quantity += line.Quantity
			rows[i].Entries = append(rows[i].Entries, ChecklistEntry{
				OrderNumber:   order.OrderNumber,
				Quantity:      line.Quantity,
				Customization: line.Customization,
			})
		}
	}

	all := len(rows) > 0
	for _, row := range rows {
		if !row.Checked {
			all = false
			break
		}
	}
	return &DeliveryChecklist{
		DeliveryDate: day.Format("2006-01-02"),
		ShopID:       shopID,
		Rows:         rows,
		AllChecked:   all,
	}, nil
}

// CheckItem marks one checklist product as loaded. Every order of the
// shop/date group that contains the product and is still in Enregistrée or
// Enregistrée (modifiée) moves to En livraison right away, each with its
// own ledger entry, all in one transaction. Orders without the product
// wait for their own items.
func (s *AggregationService) CheckItem(date time.Time, shopID uint, productName, actor string) (*DeliveryChecklist, error) {
	day := models.DateOnly(date)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		deliveryRepo := s.deliveryRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		if _, err := deliveryRepo.Upsert(day, shopID, productName, true); err != nil {
			return err
		}

		orders, err := orderRepo.ListForDelivery(day, shopID)
		if err != nil {
			return err
		}
		for i := range orders {
			order := &orders[i]
			if order.Status != constants.OrderStatusRegistered &&
				order.Status != constants.OrderStatusRegisteredModified {
				continue
			}
			if !orderContainsProduct(order, productName) {
				continue
			}
			affected, err := orderRepo.UpdateWithVersion(order.ID, order.Version, map[string]interface{}{
				"status": constants.OrderStatusInDelivery,
			})
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrOrderConflict
			}
			if err := orderRepo.CreateHistory(&models.OrderStatusHistory{
				OrderID:   order.ID,
				OldStatus: order.Status,
				NewStatus: constants.OrderStatusInDelivery,
				ChangedBy: actor,
				Comment:   "Chargement terminé",
			}); err != nil {
				return err
			}
		}
		logger.Infow("delivery item checked",
			"shop_id", shopID,
			"date", day.Format("2006-01-02"),
			"product", productName,
			"checked_by", actor,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Checklist(day, shopID)
}

// UncheckItem clears one checklist flag. Order statuses are left alone.
func (s *AggregationService) UncheckItem(date time.Time, shopID uint, productName string) (*DeliveryChecklist, error) {
	day := models.DateOnly(date)
	if _, err := s.deliveryRepo.Upsert(day, shopID, productName, false); err != nil {
		return nil, err
	}
	return s.Checklist(day, shopID)
}

func orderContainsProduct(order *models.Order, productName string) bool {
	for _, line := range order.Lines {
		if line.ProductName == productName {
			return true
		}
	}
	return false
}

func productIsEvent(product *models.Product) bool {
	if product == nil {
		return false
	}
	return product.HasEventFlag() || product.Category.HasEventFlag()
}

// eventAppearance picks the display attributes, product flags first.
func eventAppearance(product *models.Product) (color, icon string) {
	if product.HasEventFlag() {
		return product.EventColor, product.EventIcon
	}
	if product.Category.HasEventFlag() {
		return product.Category.EventColor, product.Category.EventIcon
	}
	return "", ""
}
