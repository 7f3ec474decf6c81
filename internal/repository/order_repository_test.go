package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupRepoTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
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
	return db
}

func insertOrder(t *testing.T, repo *GormOrderRepository, shopID uint, number string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:       number,
		ShopID:            shopID,
		PickupDate:        models.DateOnly(time.Now().AddDate(0, 0, 1)),
		CustomerName:      "Martin",
		CustomerFirstname: "Claire",
		CustomerPhone:     "0600000001",
		TotalAmount:       models.NewMoneyFromFloat(15),
		Status:            constants.OrderStatusRegistered,
		CreatedBy:         "vendeur-test",
		Version:           1,
	}
	lines := []models.OrderLine{{
		ProductID:   1,
		ProductName: "Tarte citron",
		Quantity:    1,
		UnitPrice:   models.NewMoneyFromFloat(15),
		Subtotal:    models.NewMoneyFromFloat(15),
	}}
	if err := repo.Create(order, lines); err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestUpdateWithVersionCAS(t *testing.T) {
	db := setupRepoTest(t)
	repo := NewOrderRepository(db)
	order := insertOrder(t, repo, 1, "CMD-20260830-000001")

	affected, err := repo.UpdateWithVersion(order.ID, order.Version, map[string]interface{}{
		"status": constants.OrderStatusInDelivery,
	})
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}

	// A stale version writes nothing.
	affected, err = repo.UpdateWithVersion(order.ID, order.Version, map[string]interface{}{
		"status": constants.OrderStatusPickedUp,
	})
	if err != nil {
		t.Fatalf("stale update: %v", err)
	}
	if affected != 0 {
		t.Fatalf("stale affected = %d, want 0", affected)
	}

	reloaded, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != constants.OrderStatusInDelivery {
		t.Fatalf("status = %q, want %q", reloaded.Status, constants.OrderStatusInDelivery)
	}
	if reloaded.Version != order.Version+1 {
		t.Fatalf("version = %d, want %d", reloaded.Version, order.Version+1)
	}
}

func TestOrderListFilters(t *testing.T) {
	db := setupRepoTest(t)
	repo := NewOrderRepository(db)
	insertOrder(t, repo, 1, "CMD-20260830-000001")
	insertOrder(t, repo, 2, "CMD-20260830-000002")

	orders, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 10, ShopID: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(orders) != 1 {
		t.Fatalf("shop filter: total = %d, rows = %d", total, len(orders))
	}
	if orders[0].OrderNumber != "CMD-20260830-000001" {
		t.Fatalf("wrong order returned: %s", orders[0].OrderNumber)
	}

	orders, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 10, OrderNumber: "CMD-20260830-000002"})
	if err != nil {
		t.Fatalf("list by number: %v", err)
	}
	if total != 1 || orders[0].ShopID != 2 {
		t.Fatalf("number filter: total = %d, shop = %d", total, orders[0].ShopID)
	}

	orders, _, err = repo.List(OrderListFilter{Page: 1, PageSize: 10, CustomerSearch: "Mart"})
	if err != nil {
		t.Fatalf("list by customer: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("customer search rows = %d, want 2", len(orders))
	}
}

func TestDeliveryItemUpsert(t *testing.T) {
	db := setupRepoTest(t)
	repo := NewDeliveryItemRepository(db)
	day := models.DateOnly(time.Now())

	// Lazily created on first check.
	item, err := repo.Upsert(day, 1, "Tarte citron", true)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !item.Checked {
		t.Fatalf("item not checked after first upsert")
	}

	// Flipping the flag reuses the same row.
	again, err := repo.Upsert(day, 1, "Tarte citron", false)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if again.ID != item.ID {
		t.Fatalf("upsert created a second row: %d vs %d", again.ID, item.ID)
	}
	if again.Checked {
		t.Fatalf("item still checked after uncheck")
	}

	items, err := repo.ListByDateAndShop(day, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("rows = %d, want 1", len(items))
	}

	// A different product keys its own row.
	if _, err := repo.Upsert(day, 1, "Éclair chocolat", true); err != nil {
		t.Fatalf("third upsert: %v", err)
	}
	items, _ = repo.ListByDateAndShop(day, 1)
	if len(items) != 2 {
		t.Fatalf("rows = %d, want 2", len(items))
	}
}
