package service

import (
	"strings"
	"time"

	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderEditLine is one line of an edit request. ID zero marks a new line;
// a non-zero ID must reference an existing line of the order.
type OrderEditLine struct {
	ID            uint   `json:"id"`
	ProductID     uint   `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required"`
	Customization string `json:"customization"`
}

// OrderEditInput carries the full desired state of an order. Whatever is
// absent from Lines is removed; the engine derives the change categories
// by diffing against the stored order.
type OrderEditInput struct {
	OrderID           uint            `json:"-"`
	Version           uint            `json:"version" binding:"required"`
	ShopID            uint            `json:"shop_id" binding:"required"`
	PickupDate        time.Time       `json:"pickup_date" binding:"required" time_format:"2006-01-02"`
	CustomerName      string          `json:"customer_name" binding:"required"`
	CustomerFirstname string          `json:"customer_firstname" binding:"required"`
	CustomerPhone     string          `json:"customer_phone" binding:"required"`
	CustomerEmail     string          `json:"customer_email"`
	Lines             []OrderEditLine `json:"lines" binding:"required"`
	Actor             string          `json:"-"`
}

// EditResult is the outcome of one order edit.
type EditResult struct {
	Order         *models.Order              `json:"order"`
	Modifications []models.OrderModification `json:"modifications"`
}

// OrderModificationService applies order edits as a diff against stored
// state. Each detected change category yields one audit record; line
// identity is preserved so an unchanged line keeps its row and a quantity
// change updates in place rather than recreating the line.
type OrderModificationService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	prodRepo  repository.ProductRepository
	shopRepo  repository.ShopRepository
	stock     *StockService
}

// NewOrderModificationService creates the modification service.
func NewOrderModificationService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	prodRepo repository.ProductRepository,
	shopRepo repository.ShopRepository,
	stock *StockService,
) *OrderModificationService {
	return &OrderModificationService{
		db:        db,
		orderRepo: orderRepo,
		prodRepo:  prodRepo,
		shopRepo:  shopRepo,
		stock:     stock,
	}
}

// Edit applies one edit request. The diff, the line writes, the audit
// records, the stock reconciliation and the status flip commit in a single
// transaction; an edit that changes nothing writes nothing.
func (s *OrderModificationService) Edit(in OrderEditInput) (*EditResult, error) {
	if err := s.validateEdit(&in); err != nil {
		return nil, err
	}

	var result *EditResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		order, err := orderRepo.GetByID(in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusCancelled || order.Status == constants.OrderStatusPickedUp {
			return ErrOrderNotEditable
		}
		if order.Version != in.Version {
			return ErrOrderConflict
		}

		mods, err := s.applyEdit(tx, orderRepo, order, in)
		if err != nil {
			return err
		}
		result = &EditResult{Order: order, Modifications: mods}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Modifications) > 0 {
		logger.Infow("order modified",
			"order_id", result.Order.ID,
			"order_number", result.Order.OrderNumber,
			"modifications", len(result.Modifications),
			"modified_by", in.Actor,
		)
	}
	return result, nil
}

func (s *OrderModificationService) validateEdit(in *OrderEditInput) error {
	if in.ShopID == 0 {
		return ErrShopRequired
	}
	if in.PickupDate.IsZero() {
		return ErrPickupDateRequired
	}
	if strings.TrimSpace(in.CustomerName) == "" ||
		strings.TrimSpace(in.CustomerFirstname) == "" ||
		strings.TrimSpace(in.CustomerPhone) == "" {
		return ErrCustomerInfoRequired
	}
	if len(in.Lines) == 0 {
		return ErrOrderLineRequired
	}
	for _, line := range in.Lines {
		if line.ProductID == 0 || line.Quantity <= 0 {
			return ErrInvalidOrderLine
		}
	}
	return nil
}

// applyEdit runs inside the transaction. Order matters: removals free
// stock before additions claim it.
func (s *OrderModificationService) applyEdit(tx *gorm.DB, orderRepo repository.OrderRepository, order *models.Order, in OrderEditInput) ([]models.OrderModification, error) {
	var mods []models.OrderModification
	record := func(modType string, details models.JSON) {
		mods = append(mods, models.OrderModification{
			OrderID:          order.ID,
			ModifiedBy:       in.Actor,
			ModificationType: modType,
			Details:          details,
			Comment:          constants.HistoryCommentOrderModified,
		})
	}

	updates := map[string]interface{}{}

	if details := s.diffCustomerInfo(order, in); details != nil {
		record(constants.ModificationTypeCustomerInfo, details)
		updates["customer_name"] = strings.TrimSpace(in.CustomerName)
		updates["customer_firstname"] = strings.TrimSpace(in.CustomerFirstname)
		updates["customer_phone"] = strings.TrimSpace(in.CustomerPhone)
		updates["customer_email"] = strings.TrimSpace(in.CustomerEmail)
	}

	newDate := models.DateOnly(in.PickupDate)
	oldDate := models.DateOnly(order.PickupDate)
	if !newDate.Equal(oldDate) {
		record(constants.ModificationTypePickupDate, models.JSON{
			"before": oldDate.Format("2006-01-02"),
			"after":  newDate.Format("2006-01-02"),
		})
		updates["pickup_date"] = newDate
	}

	if in.ShopID != order.ShopID {
		details, err := s.diffShop(order.ShopID, in.ShopID)
		if err != nil {
			return nil, err
		}
		record(constants.ModificationTypeShop, details)
		updates["shop_id"] = in.ShopID
	}

	lineMods, total, err := s.diffLines(tx, orderRepo, order, in.Lines)
	if err != nil {
		return nil, err
	}
	for _, lm := range lineMods {
		record(lm.modType, lm.details)
	}

	if len(mods) == 0 {
		return nil, nil
	}

	updates["total_amount"] = models.NewMoneyFromDecimal(total)
	newStatus := order.Status
	if order.Status == constants.OrderStatusRegistered {
		newStatus = constants.OrderStatusRegisteredModified
		updates["status"] = newStatus
	}

	affected, err := orderRepo.UpdateWithVersion(order.ID, order.Version, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrOrderConflict
	}

	for i := range mods {
		if err := orderRepo.CreateModification(&mods[i]); err != nil {
			return nil, err
		}
	}

	// One ledger entry per effective edit, even when the status stays put.
	if err := orderRepo.CreateHistory(&models.OrderStatusHistory{
		OrderID:   order.ID,
		OldStatus: order.Status,
		NewStatus: newStatus,
		ChangedBy: in.Actor,
		Comment:   constants.HistoryCommentOrderModified,
	}); err != nil {
		return nil, err
	}

	reloaded, err := orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}
	*order = *reloaded
	return mods, nil
}

// diffCustomerInfo returns a before/after payload restricted to the fields
// that changed, or nil when nothing did.
func (s *OrderModificationService) diffCustomerInfo(order *models.Order, in OrderEditInput) models.JSON {
	before := models.JSON{}
	after := models.JSON{}
	compare := func(field, oldValue, newValue string) {
		newValue = strings.TrimSpace(newValue)
		if oldValue != newValue {
			before[field] = oldValue
			after[field] = newValue
		}
	}
	compare("customer_name", order.CustomerName, in.CustomerName)
	compare("customer_firstname", order.CustomerFirstname, in.CustomerFirstname)
	compare("customer_phone", order.CustomerPhone, in.CustomerPhone)
	compare("customer_email", order.CustomerEmail, in.CustomerEmail)
	if len(before) == 0 {
		return nil
	}
	return models.JSON{"before": before, "after": after}
}

func (s *OrderModificationService) diffShop(oldID, newID uint) (models.JSON, error) {
	newShop, err := s.shopRepo.GetByID(newID)
	if err != nil {
		return nil, err
	}
	if newShop == nil {
		return nil, ErrShopNotFound
	}
	if !newShop.Active {
		return nil, ErrShopInactive
	}
	details := models.JSON{
		"before_shop_id": oldID,
		"after_shop_id":  newID,
		"after_shop":     newShop.Name,
	}
	if oldShop, err := s.shopRepo.GetByID(oldID); err == nil && oldShop != nil {
		details["before_shop"] = oldShop.Name
	}
	return details, nil
}

type lineModification struct {
	modType string
	details models.JSON
}

// diffLines splits the requested lines into kept, added and removed by
// line identity, applies the writes and the stock moves, and returns the
// resulting change categories plus the recomputed order total.
func (s *OrderModificationService) diffLines(tx *gorm.DB, orderRepo repository.OrderRepository, order *models.Order, requested []OrderEditLine) ([]lineModification, decimal.Decimal, error) {
	existing := make(map[uint]*models.OrderLine, len(order.Lines))
	for i := range order.Lines {
		existing[order.Lines[i].ID] = &order.Lines[i]
	}

	var kept []OrderEditLine
	var added []OrderEditLine
	seen := make(map[uint]bool)
	for _, line := range requested {
		if line.ID == 0 {
			added = append(added, line)
			continue
		}
		if _, ok := existing[line.ID]; !ok {
			return nil, decimal.Zero, ErrInvalidOrderLine
		}
		seen[line.ID] = true
		kept = append(kept, line)
	}
	var removed []*models.OrderLine
	for i := range order.Lines {
		if !seen[order.Lines[i].ID] {
			removed = append(removed, &order.Lines[i])
		}
	}

	var mods []lineModification
	total := decimal.Zero

	// Removals first so freed stock can cover additions.
	if len(removed) > 0 {
		ids := make([]uint, 0, len(removed))
		entries := make([]models.JSON, 0, len(removed))
		var restock []models.OrderLine
		for _, line := range removed {
			ids = append(ids, line.ID)
			entries = append(entries, models.JSON{
				"line_id":      line.ID,
				"product_id":   line.ProductID,
				"product_name": line.ProductName,
				"quantity":     line.Quantity,
			})
			restock = append(restock, *line)
		}
		if err := orderRepo.DeleteLines(ids); err != nil {
			return nil, decimal.Zero, err
		}
		if _, err := s.stock.Reconcile(tx, restock, constants.StockDirectionIncrement); err != nil {
			return nil, decimal.Zero, err
		}
		mods = append(mods, lineModification{
			modType: constants.ModificationTypeProductsRemoved,
			details: models.JSON{"products": entries},
		})
	}

	// Quantity and customization changes on surviving lines.
	var changes []models.JSON
	var deltaDecrement []models.OrderLine
	var deltaIncrement []models.OrderLine
	for _, req := range kept {
		line := existing[req.ID]
		customization := strings.TrimSpace(req.Customization)
		if req.Quantity == line.Quantity && customization == line.Customization {
			total = total.Add(line.Subtotal.Decimal)
			continue
		}

		change := models.JSON{
			"line_id":      line.ID,
			"product_id":   line.ProductID,
			"product_name": line.ProductName,
		}
		if req.Quantity != line.Quantity {
			change["before_quantity"] = line.Quantity
			change["after_quantity"] = req.Quantity
			delta := req.Quantity - line.Quantity
			deltaLine := models.OrderLine{ProductID: line.ProductID, Quantity: delta}
			if delta > 0 {
				deltaDecrement = append(deltaDecrement, deltaLine)
			} else {
				deltaLine.Quantity = -delta
				deltaIncrement = append(deltaIncrement, deltaLine)
			}
		}
		if customization != line.Customization {
			change["before_customization"] = line.Customization
			change["after_customization"] = customization
		}
		changes = append(changes, change)

		subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
		if err := orderRepo.UpdateLine(line.ID, map[string]interface{}{
			"quantity":      req.Quantity,
			"customization": customization,
			"subtotal":      models.NewMoneyFromDecimal(subtotal),
		}); err != nil {
			return nil, decimal.Zero, err
		}
		total = total.Add(subtotal)
	}
	if len(deltaIncrement) > 0 {
		if _, err := s.stock.Reconcile(tx, deltaIncrement, constants.StockDirectionIncrement); err != nil {
			return nil, decimal.Zero, err
		}
	}
	if len(deltaDecrement) > 0 {
		if err := s.stock.CheckAvailability(tx, deltaDecrement); err != nil {
			return nil, decimal.Zero, err
		}
		if _, err := s.stock.Reconcile(tx, deltaDecrement, constants.StockDirectionDecrement); err != nil {
			return nil, decimal.Zero, err
		}
	}
	if len(changes) > 0 {
		mods = append(mods, lineModification{
			modType: constants.ModificationTypeQuantitiesChanged,
			details: models.JSON{"changes": changes},
		})
	}

	// Additions snapshot current product name and price.
	if len(added) > 0 {
		prodRepo := s.prodRepo.WithTx(tx)
		var newLines []models.OrderLine
		entries := make([]models.JSON, 0, len(added))
		for _, req := range added {
			product, err := prodRepo.GetByID(req.ProductID)
			if err != nil {
				return nil, decimal.Zero, err
			}
			if product == nil || !product.Active {
				return nil, decimal.Zero, ErrProductNotFound
			}
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
			newLines = append(newLines, models.OrderLine{
				OrderID:       order.ID,
				ProductID:     product.ID,
				ProductName:   product.Name,
				Quantity:      req.Quantity,
				UnitPrice:     product.Price,
				Customization: strings.TrimSpace(req.Customization),
				Subtotal:      models.NewMoneyFromDecimal(subtotal),
			})
			entries = append(entries, models.JSON{
				"product_id":   product.ID,
				"product_name": product.Name,
				"quantity":     req.Quantity,
				"unit_price":   product.Price.String(),
			})
			total = total.Add(subtotal)
		}
		if err := s.stock.CheckAvailability(tx, newLines); err != nil {
			return nil, decimal.Zero, err
		}
		if err := orderRepo.CreateLines(newLines); err != nil {
			return nil, decimal.Zero, err
		}
		if _, err := s.stock.Reconcile(tx, newLines, constants.StockDirectionDecrement); err != nil {
			return nil, decimal.Zero, err
		}
		mods = append(mods, lineModification{
			modType: constants.ModificationTypeProductsAdded,
			details: models.JSON{"products": entries},
		})
	}

	return mods, total, nil
}
