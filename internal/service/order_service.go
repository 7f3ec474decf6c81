package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TaskEnqueuer abstracts the background queue so order flows stay usable
// when the queue is disabled.
type TaskEnqueuer interface {
	EnqueueOrderConfirmation(orderID uint) error
	EnqueueOrderReminder(orderID uint) error
}

// OrderLineInput is one requested product entry.
type OrderLineInput struct {
	ProductID     uint   `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required"`
	Customization string `json:"customization"`
}

// CreateOrderInput carries a new order request.
type CreateOrderInput struct {
	ShopID            uint             `json:"shop_id" binding:"required"`
	PickupDate        time.Time        `json:"pickup_date" binding:"required" time_format:"2006-01-02"`
	CustomerName      string           `json:"customer_name" binding:"required"`
	CustomerFirstname string           `json:"customer_firstname" binding:"required"`
	CustomerPhone     string           `json:"customer_phone" binding:"required"`
	CustomerEmail     string           `json:"customer_email"`
	Lines             []OrderLineInput `json:"lines" binding:"required"`
	CreatedBy         string           `json:"-"`
}

// OrderService owns order creation and retrieval. Edits live in
// OrderModificationService, status changes in OrderStatusService.
type OrderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	prodRepo  repository.ProductRepository
	shopRepo  repository.ShopRepository
	stock     *StockService
	enqueuer  TaskEnqueuer
}

// NewOrderService creates the order service. The enqueuer may be nil when
// background processing is disabled.
func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	prodRepo repository.ProductRepository,
	shopRepo repository.ShopRepository,
	stock *StockService,
	enqueuer TaskEnqueuer,
) *OrderService {
	return &OrderService{
		db:        db,
		orderRepo: orderRepo,
		prodRepo:  prodRepo,
		shopRepo:  shopRepo,
		stock:     stock,
		enqueuer:  enqueuer,
	}
}

// Create registers a new order: validates the request, snapshots product
// names and prices, decrements tracked stock and writes the opening ledger
// entry, all in one transaction.
func (s *OrderService) Create(in CreateOrderInput) (*models.Order, error) {
	if err := s.validateCreate(&in); err != nil {
		return nil, err
	}

	var created *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		shop, err := s.shopRepo.GetByID(in.ShopID)
		if err != nil {
			return err
		}
		if shop == nil {
			return ErrShopNotFound
		}
		if !shop.Active {
			return ErrShopInactive
		}

		lines, total, err := s.buildLines(tx, in.Lines)
		if err != nil {
			return err
		}
		if err := s.stock.CheckAvailability(tx, lines); err != nil {
			return err
		}

		number, err := s.nextOrderNumber(orderRepo)
		if err != nil {
			return err
		}

		order := &models.Order{
			OrderNumber:       number,
			ShopID:            in.ShopID,
			PickupDate:        models.DateOnly(in.PickupDate),
			CustomerName:      strings.TrimSpace(in.CustomerName),
			CustomerFirstname: strings.TrimSpace(in.CustomerFirstname),
			CustomerPhone:     strings.TrimSpace(in.CustomerPhone),
			CustomerEmail:     strings.TrimSpace(in.CustomerEmail),
			TotalAmount:       models.NewMoneyFromDecimal(total),
			Status:            constants.OrderStatusRegistered,
			CreatedBy:         in.CreatedBy,
			Version:           1,
		}
		if err := orderRepo.Create(order, lines); err != nil {
			return err
		}
		order.Lines = lines
		order.Shop = shop

		if err := orderRepo.CreateHistory(&models.OrderStatusHistory{
			OrderID:   order.ID,
			OldStatus: "",
			NewStatus: constants.OrderStatusRegistered,
			ChangedBy: in.CreatedBy,
			Comment:   constants.HistoryCommentOrderCreated,
		}); err != nil {
			return err
		}

		if _, err := s.stock.Reconcile(tx, lines, constants.StockDirectionDecrement); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order created",
		"order_id", created.ID,
		"order_number", created.OrderNumber,
		"shop_id", created.ShopID,
		"total", created.TotalAmount.String(),
		"created_by", created.CreatedBy,
	)

	if s.enqueuer != nil && created.CustomerEmail != "" {
		if err := s.enqueuer.EnqueueOrderConfirmation(created.ID); err != nil {
			logger.Warnw("order confirmation enqueue failed", "order_id", created.ID, "error", err)
		}
	}
	return created, nil
}

// Get fetches one order by its id.
func (s *OrderService) Get(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByNumber fetches one order by its public number.
func (s *OrderService) GetByNumber(orderNumber string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List returns a filtered order page. Callers scoped to one shop pass the
// shop id through the filter.
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// History returns the status ledger for one order.
func (s *OrderService) History(orderID uint) ([]models.OrderStatusHistory, error) {
	if _, err := s.Get(orderID); err != nil {
		return nil, err
	}
	return s.orderRepo.ListHistory(orderID)
}

// Modifications returns the modification trail for one order.
func (s *OrderService) Modifications(orderID uint) ([]models.OrderModification, error) {
	if _, err := s.Get(orderID); err != nil {
		return nil, err
	}
	return s.orderRepo.ListModifications(orderID)
}

// Remind enqueues a pickup reminder email for one order.
func (s *OrderService) Remind(orderID uint) error {
	order, err := s.Get(orderID)
	if err != nil {
		return err
	}
	if s.enqueuer == nil {
		logger.Warnw("reminder requested but queue is disabled", "order_id", order.ID)
		return nil
	}
	return s.enqueuer.EnqueueOrderReminder(order.ID)
}

func (s *OrderService) validateCreate(in *CreateOrderInput) error {
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

// buildLines resolves products, snapshots their names and prices and
// computes the order total.
func (s *OrderService) buildLines(tx *gorm.DB, inputs []OrderLineInput) ([]models.OrderLine, decimal.Decimal, error) {
	repo := s.prodRepo.WithTx(tx)

	ids := make([]uint, 0, len(inputs))
	for _, line := range inputs {
		ids = append(ids, line.ProductID)
	}
	products, err := repo.ListByIDs(ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]models.OrderLine, 0, len(inputs))
	total := decimal.Zero
	for _, input := range inputs {
		product, ok := byID[input.ProductID]
		if !ok || !product.Active {
			return nil, decimal.Zero, ErrProductNotFound
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(input.Quantity)))
		lines = append(lines, models.OrderLine{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Quantity:      input.Quantity,
			UnitPrice:     product.Price,
			Customization: strings.TrimSpace(input.Customization),
			Subtotal:      models.NewMoneyFromDecimal(subtotal),
		})
		total = total.Add(subtotal)
	}
	return lines, total, nil
}

// nextOrderNumber produces CMD-YYYYMMDD-NNNNNN with a random suffix,
// retrying on the rare collision.
func (s *OrderService) nextOrderNumber(repo repository.OrderRepository) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(1000000))
		if err != nil {
			return "", err
		}
		number := fmt.Sprintf("CMD-%s-%06d", time.Now().Format("20060102"), n.Int64())
		existing, err := repo.GetByOrderNumber(number)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return number, nil
		}
	}
	return "", fmt.Errorf("order number generation exhausted retries")
}
