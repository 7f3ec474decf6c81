package service

import (
	"errors"
	"testing"

	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/models"
)

func TestReconcileSkipsUnlimitedProducts(t *testing.T) {
	f := setupServiceTest(t)
	unlimited := f.createProduct(t, "Croissant", 1.20)
	tracked := f.createProduct(t, "Galette des rois", 18.00, withStock(8))

	lines := []models.OrderLine{
		{ProductID: unlimited.ID, Quantity: 10},
		{ProductID: tracked.ID, Quantity: 3},
	}
	adjustments, err := f.stock.Reconcile(nil, lines, constants.StockDirectionDecrement)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(adjustments) != 1 {
		t.Fatalf("adjustments = %d, want 1", len(adjustments))
	}
	adj := adjustments[0]
	if adj.ProductID != tracked.ID || adj.Before != 8 || adj.After != 5 || adj.Delta != -3 {
		t.Fatalf("unexpected adjustment: %+v", adj)
	}
}

func TestReconcileClampsAtZero(t *testing.T) {
	f := setupServiceTest(t)
	tracked := f.createProduct(t, "Bûche de Noël", 28.00, withStock(2))

	lines := []models.OrderLine{{ProductID: tracked.ID, Quantity: 5}}
	adjustments, err := f.stock.Reconcile(nil, lines, constants.StockDirectionDecrement)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if adjustments[0].After != 0 {
		t.Fatalf("stock after clamped decrement = %d, want 0", adjustments[0].After)
	}
	p, _ := f.productRepo.GetByID(tracked.ID)
	if p.CurrentStock != 0 {
		t.Fatalf("stored stock = %d, want 0", p.CurrentStock)
	}
}

func TestReconcileSkipsMissingProducts(t *testing.T) {
	f := setupServiceTest(t)
	lines := []models.OrderLine{{ProductID: 9999, Quantity: 2}}
	adjustments, err := f.stock.Reconcile(nil, lines, constants.StockDirectionIncrement)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(adjustments) != 0 {
		t.Fatalf("adjustments = %d, want 0", len(adjustments))
	}
}

func TestReconcileMergesDuplicateLines(t *testing.T) {
	f := setupServiceTest(t)
	tracked := f.createProduct(t, "Galette des rois", 18.00, withStock(10))

	lines := []models.OrderLine{
		{ProductID: tracked.ID, Quantity: 2},
		{ProductID: tracked.ID, Quantity: 3},
	}
	adjustments, err := f.stock.Reconcile(nil, lines, constants.StockDirectionDecrement)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(adjustments) != 1 || adjustments[0].After != 5 {
		t.Fatalf("unexpected adjustments: %+v", adjustments)
	}
}

func TestCheckAvailability(t *testing.T) {
	f := setupServiceTest(t)
	tracked := f.createProduct(t, "Cœur framboise", 22.00, withStock(3))

	ok := []models.OrderLine{{ProductID: tracked.ID, Quantity: 3}}
	if err := f.stock.CheckAvailability(nil, ok); err != nil {
		t.Fatalf("availability within stock: %v", err)
	}

	over := []models.OrderLine{{ProductID: tracked.ID, Quantity: 4}}
	if err := f.stock.CheckAvailability(nil, over); !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("availability beyond stock: err = %v, want ErrStockInsufficient", err)
	}
}

func TestSetStockRejectsMissingProduct(t *testing.T) {
	f := setupServiceTest(t)
	if _, err := f.stock.SetStock(4242, 10); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("set stock on missing product: err = %v, want ErrProductNotFound", err)
	}
}
