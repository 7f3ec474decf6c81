package service

import (
	"context"
	"testing"
	"time"

	"github.com/fournil-next/internal/authz"
	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/models"
)

func (f *serviceFixture) aggregation() *AggregationService {
	return NewAggregationService(f.db, f.orderRepo, f.productRepo, f.deliveryRepo, nil, time.Minute)
}

func TestProductionSummaryAggregatesAndSorts(t *testing.T) {
	f := setupServiceTest(t)
	agg := f.aggregation()
	tarte := f.createProduct(t, "Tarte citron", 15.00)
	eclair := f.createProduct(t, "Éclair chocolat", 3.50)
	croissant := f.createProduct(t, "Croissant", 1.20)

	f.createOrder(t,
		OrderLineInput{ProductID: tarte.ID, Quantity: 2},
		OrderLineInput{ProductID: eclair.ID, Quantity: 5},
	)
	f.createOrder(t,
		OrderLineInput{ProductID: eclair.ID, Quantity: 3},
		OrderLineInput{ProductID: croissant.ID, Quantity: 2},
	)

	start := time.Now()
	end := start.AddDate(0, 0, 7)
	rows, err := agg.ProductionSummary(context.Background(), ProductionFilter{Start: start, End: end})
	if err != nil {
		t.Fatalf("production summary: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	// Quantity descending: éclair 8, then tarte and croissant both 2,
	// tarte first because it appeared first.
	if rows[0].ProductName != "Éclair chocolat" || rows[0].Quantity != 8 {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
	if rows[1].ProductName != "Tarte citron" || rows[2].ProductName != "Croissant" {
		t.Fatalf("tie order wrong: %q then %q", rows[1].ProductName, rows[2].ProductName)
	}
}

func TestProductionSummaryKeepsRenamedProductRowsDistinct(t *testing.T) {
	f := setupServiceTest(t)
	agg := f.aggregation()
	tarte := f.createProduct(t, "Tarte citron", 15.00)

	f.createOrder(t, OrderLineInput{ProductID: tarte.ID, Quantity: 4})
	if err := f.productRepo.Update(tarte.ID, map[string]interface{}{"name": "Tarte citron meringuée"}); err != nil {
		t.Fatalf("rename product: %v", err)
	}
	f.createOrder(t, OrderLineInput{ProductID: tarte.ID, Quantity: 3})

	rows, err := agg.ProductionSummary(context.Background(), ProductionFilter{
		Start: time.Now(), End: time.Now().AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("production summary: %v", err)
	}
	// Lines booked under the old name stay their own row.
	if len(rows) != 2 {
		t.Fatalf("rows = %+v, want one per snapshot name", rows)
	}
	if rows[0].ProductName != "Tarte citron" || rows[0].Quantity != 4 {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
	if rows[1].ProductName != "Tarte citron meringuée" || rows[1].Quantity != 3 {
		t.Fatalf("rows[1] = %+v", rows[1])
	}
}

func TestProductionSummaryExcludesCancelledOrders(t *testing.T) {
	f := setupServiceTest(t)
	agg := f.aggregation()
	tarte := f.createProduct(t, "Tarte citron", 15.00)

	kept := f.createOrder(t, OrderLineInput{ProductID: tarte.ID, Quantity: 2})
	dropped := f.createOrder(t, OrderLineInput{ProductID: tarte.ID, Quantity: 9})
	if _, err := f.status.Cancel(dropped.ID, "admin-test", "doublon",
		authz.StatusPolicyForRole(constants.RoleAdmin)); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	rows, err := agg.ProductionSummary(context.Background(), ProductionFilter{
		Start: time.Now(), End: time.Now().AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("production summary: %v", err)
	}
	if len(rows) != 1 || rows[0].Quantity != kept.Lines[0].Quantity {
		t.Fatalf("rows = %+v, want single row of quantity %d", rows, kept.Lines[0].Quantity)
	}
}

func TestProductionSummaryEventFilter(t *testing.T) {
	f := setupServiceTest(t)
	agg := f.aggregation()
	buche := f.createProduct(t, "Bûche de Noël", 28.00, func(p *models.Product) {
		p.IsChristmas = true
		p.EventColor = "#c0392b"
	})
	croissant := f.createProduct(t, "Croissant", 1.20)

	f.createOrder(t,
		OrderLineInput{ProductID: buche.ID, Quantity: 4},
		OrderLineInput{ProductID: croissant.ID, Quantity: 6},
	)

	window := ProductionFilter{Start: time.Now(), End: time.Now().AddDate(0, 0, 7)}

	window.EventFilter = constants.EventFilterEvent
	eventRows, err := agg.ProductionSummary(context.Background(), window)
	if err != nil {
		t.Fatalf("event summary: %v", err)
	}
	if len(eventRows) != 1 || eventRows[0].ProductName != "Bûche de Noël" || !eventRows[0].IsEvent {
		t.Fatalf("event rows = %+v", eventRows)
	}
	if eventRows[0].EventColor != "#c0392b" {
		t.Fatalf("event color = %q", eventRows[0].EventColor)
	}

	window.EventFilter = constants.EventFilterRegular
	regularRows, err := agg.ProductionSummary(context.Background(), window)
	if err != nil {
		t.Fatalf("regular summary: %v", err)
	}
	if len(regularRows) != 1 || regularRows[0].ProductName != "Croissant" {
		t.Fatalf("regular rows = %+v", regularRows)
	}
}

func TestProductionSummaryCategoryEventFlagCounts(t *testing.T) {
	f := setupServiceTest(t)
	agg := f.aggregation()

	seasonal := &models.Category{Name: "Fêtes", IsEpiphany: true}
	if err := f.db.Create(seasonal).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	galette := f.createProduct(t, "Galette des rois", 18.00, func(p *models.Product) {
		p.CategoryID = seasonal.ID
	})
	f.createOrder(t, OrderLineInput{ProductID: galette.ID, Quantity: 2})

	rows, err := agg.ProductionSummary(context.Background(), ProductionFilter{
		Start:       time.Now(),
		End:         time.Now().AddDate(0, 0, 7),
		EventFilter: constants.EventFilterEvent,
	})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	// The category flag alone marks the product as event.
	if len(rows) != 1 || !rows[0].IsEvent {
		t.Fatalf("rows = %+v, want one event row", rows)
	}
}

func TestCheckItemMovesContainingOrdersToDelivery(t *testing.T) {
	f := setupServiceTest(t)
	agg := f.aggregation()
	tarte := f.createProduct(t, "Tarte citron", 15.00)
	eclair := f.createProduct(t, "Éclair chocolat", 3.50)

	tarteOnly := f.createOrder(t, OrderLineInput{ProductID: tarte.ID, Quantity: 1})
	eclairOnly := f.createOrder(t, OrderLineInput{ProductID: eclair.ID, Quantity: 2})
	mixed := f.createOrder(t,
		OrderLineInput{ProductID: tarte.ID, Quantity: 1},
		OrderLineInput{ProductID: eclair.ID, Quantity: 1},
	)
	date := tarteOnly.PickupDate

	// Checking a product moves every order that contains it, right away.
	checklist, err := agg.CheckItem(date, f.shop.ID, "Tarte citron", "production-test")
	if err != nil {
		t.Fatalf("check item: %v", err)
	}
	if checklist.AllChecked {
		t.Fatalf("checklist complete after one of two products")
	}
	if got := f.reloadOrder(t, tarteOnly.ID).Status; got != constants.OrderStatusInDelivery {
		t.Fatalf("order containing checked product has status %q, want %q", got, constants.OrderStatusInDelivery)
	}
	if got := f.reloadOrder(t, mixed.ID).Status; got != constants.OrderStatusInDelivery {
		t.Fatalf("mixed order has status %q, want %q", got, constants.OrderStatusInDelivery)
	}
	if got := f.historyCount(t, tarteOnly.ID); got != 2 {
		t.Fatalf("history = %d, want 2", got)
	}

	// Orders without the product wait for their own items.
	if got := f.reloadOrder(t, eclairOnly.ID).Status; got != constants.OrderStatusRegistered {
		t.Fatalf("unrelated order has status %q, want %q", got, constants.OrderStatusRegistered)
	}

	checklist, err = agg.CheckItem(date, f.shop.ID, "Éclair chocolat", "production-test")
	if err != nil {
		t.Fatalf("check item: %v", err)
	}
	if !checklist.AllChecked {
		t.Fatalf("checklist not complete: %+v", checklist)
	}
	if got := f.reloadOrder(t, eclairOnly.ID).Status; got != constants.OrderStatusInDelivery {
		t.Fatalf("status = %q, want %q", got, constants.OrderStatusInDelivery)
	}
	// The mixed order already transitioned; the second check adds nothing.
	if got := f.historyCount(t, mixed.ID); got != 2 {
		t.Fatalf("mixed order history = %d, want 2", got)
	}

	// Unchecking afterwards never reverts any order.
	if _, err := agg.UncheckItem(date, f.shop.ID, "Tarte citron"); err != nil {
		t.Fatalf("uncheck: %v", err)
	}
	if got := f.reloadOrder(t, tarteOnly.ID).Status; got != constants.OrderStatusInDelivery {
		t.Fatalf("status after uncheck = %q, want %q", got, constants.OrderStatusInDelivery)
	}
	if got := f.historyCount(t, tarteOnly.ID); got != 2 {
		t.Fatalf("history grew on uncheck: %d", got)
	}
}

func TestChecklistAggregatesQuantitiesAndCustomizations(t *testing.T) {
	f := setupServiceTest(t)
	agg := f.aggregation()
	tarte := f.createProduct(t, "Tarte citron", 15.00)

	first := f.createOrder(t, OrderLineInput{ProductID: tarte.ID, Quantity: 2, Customization: "sans meringue"})
	second := f.createOrder(t, OrderLineInput{ProductID: tarte.ID, Quantity: 3})

	checklist, err := agg.Checklist(first.PickupDate, f.shop.ID)
	if err != nil {
		t.Fatalf("checklist: %v", err)
	}
	if len(checklist.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(checklist.Rows))
	}
	row := checklist.Rows[0]
	if row.Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", row.Quantity)
	}
	if len(row.Entries) != 2 {
		t.Fatalf("entries = %+v, want one per order", row.Entries)
	}
	if row.Entries[0].OrderNumber != first.OrderNumber ||
		row.Entries[0].Quantity != 2 ||
		row.Entries[0].Customization != "sans meringue" {
		t.Fatalf("entries[0] = %+v", row.Entries[0])
	}
	if row.Entries[1].OrderNumber != second.OrderNumber || row.Entries[1].Quantity != 3 {
		t.Fatalf("entries[1] = %+v", row.Entries[1])
	}
	if row.Checked {
		t.Fatalf("row checked before any check")
	}
}
