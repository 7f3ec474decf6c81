package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type serviceFixture struct {
	db           *gorm.DB
	orderRepo    *repository.GormOrderRepository
	productRepo  *repository.GormProductRepository
	shopRepo     *repository.GormShopRepository
	deliveryRepo *repository.GormDeliveryItemRepository
	stock        *StockService
	orders       *OrderService
	status       *OrderStatusService
	mods         *OrderModificationService

	shop     *models.Shop
	category *models.Category
}

func setupServiceTest(t *testing.T) *serviceFixture {
	t.Helper()

	// Shared-cache DSN: transactions open extra pooled connections and
	// a plain :memory: database is invisible to them.
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderStatusHistory{},
		&models.OrderModification{},
		&models.DeliveryItem{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	f := &serviceFixture{
		db:           db,
		orderRepo:    repository.NewOrderRepository(db),
		productRepo:  repository.NewProductRepository(db),
		shopRepo:     repository.NewShopRepository(db),
		deliveryRepo: repository.NewDeliveryItemRepository(db),
	}
	f.stock = NewStockService(f.productRepo)
	f.orders = NewOrderService(db, f.orderRepo, f.productRepo, f.shopRepo, f.stock, nil)
	f.status = NewOrderStatusService(db, f.orderRepo, f.stock)
	f.mods = NewOrderModificationService(db, f.orderRepo, f.productRepo, f.shopRepo, f.stock)

	f.shop = &models.Shop{Name: "Boutique Centre", Active: true}
	if err := f.shopRepo.Create(f.shop); err != nil {
		t.Fatalf("create shop: %v", err)
	}
	f.category = &models.Category{Name: "Pâtisseries"}
	if err := db.Create(f.category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return f
}

func (f *serviceFixture) createProduct(t *testing.T, name string, price float64, opts ...func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:     f.category.ID,
		Name:           name,
		Price:          models.NewMoneyFromFloat(price),
		Active:         true,
		UnlimitedStock: true,
	}
	for _, opt := range opts {
		opt(product)
	}
	if err := f.productRepo.Create(product); err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return product
}

func withStock(stock int) func(*models.Product) {
	return func(p *models.Product) {
		p.UnlimitedStock = false
		p.CurrentStock = stock
	}
}

func (f *serviceFixture) createOrder(t *testing.T, lines ...OrderLineInput) *models.Order {
	t.Helper()
	order, err := f.orders.Create(CreateOrderInput{
		ShopID:            f.shop.ID,
		PickupDate:        time.Now().AddDate(0, 0, 2),
		CustomerName:      "Martin",
		CustomerFirstname: "Claire",
		CustomerPhone:     "0600000001",
		CustomerEmail:     "claire.martin@example.fr",
		Lines:             lines,
		CreatedBy:         "vendeur-test",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func (f *serviceFixture) reloadOrder(t *testing.T, id uint) *models.Order {
	t.Helper()
	order, err := f.orderRepo.GetByID(id)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order == nil {
		t.Fatalf("order %d vanished", id)
	}
	return order
}

func (f *serviceFixture) historyCount(t *testing.T, orderID uint) int {
	t.Helper()
	entries, err := f.orderRepo.ListHistory(orderID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	return len(entries)
}

func (f *serviceFixture) modsOfType(t *testing.T, orderID uint, modType string) []models.OrderModification {
	t.Helper()
	records, err := f.orderRepo.ListModifications(orderID)
	if err != nil {
		t.Fatalf("list modifications: %v", err)
	}
	var out []models.OrderModification
	for _, r := range records {
		if r.ModificationType == modType {
			out = append(out, r)
		}
	}
	return out
}

