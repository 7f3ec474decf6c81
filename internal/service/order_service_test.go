package service

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/models"
)

func TestCreateOrderSnapshotsAndTotal(t *testing.T) {
	f := setupServiceTest(t)
	tarte := f.createProduct(t, "Tarte citron", 15.00)
	eclair := f.createProduct(t, "Éclair chocolat", 3.50)

	order := f.createOrder(t,
		OrderLineInput{ProductID: tarte.ID, Quantity: 2},
		OrderLineInput{ProductID: eclair.ID, Quantity: 3, Customization: "sans gluten"},
	)

	if order.Status != constants.OrderStatusRegistered {
		t.Fatalf("status = %q, want %q", order.Status, constants.OrderStatusRegistered)
	}
	// 2 x 15.00 + 3 x 3.50 = 40.50
	if got := order.TotalAmount.String(); got != "40.50" {
		t.Fatalf("total = %s, want 40.50", got)
	}
	if matched, _ := regexp.MatchString(`^CMD-\d{8}-\d{6}$`, order.OrderNumber); !matched {
		t.Fatalf("order number %q does not match CMD-YYYYMMDD-NNNNNN", order.OrderNumber)
	}
	if order.Version != 1 {
		t.Fatalf("version = %d, want 1", order.Version)
	}

	// Lines carry name and price snapshots.
	for _, line := range order.Lines {
		if line.ProductName == "" || line.UnitPrice.IsZero() {
			t.Fatalf("line missing snapshot: %+v", line)
		}
	}

	// Exactly one opening ledger entry.
	entries, err := f.orderRepo.ListHistory(order.ID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history = %d, want 1", len(entries))
	}
	if entries[0].NewStatus != constants.OrderStatusRegistered || entries[0].OldStatus != "" {
		t.Fatalf("opening entry = %+v", entries[0])
	}
}

func TestCreateOrderValidation(t *testing.T) {
	f := setupServiceTest(t)
	product := f.createProduct(t, "Croissant", 1.20)

	base := CreateOrderInput{
		ShopID:            f.shop.ID,
		PickupDate:        time.Now().AddDate(0, 0, 1),
		CustomerName:      "Martin",
		CustomerFirstname: "Claire",
		CustomerPhone:     "0600000001",
		Lines:             []OrderLineInput{{ProductID: product.ID, Quantity: 1}},
		CreatedBy:         "vendeur-test",
	}

	cases := []struct {
		name   string
		mutate func(*CreateOrderInput)
		want   error
	}{
		{"missing shop", func(in *CreateOrderInput) { in.ShopID = 0 }, ErrShopRequired},
		{"missing date", func(in *CreateOrderInput) { in.PickupDate = time.Time{} }, ErrPickupDateRequired},
		{"missing phone", func(in *CreateOrderInput) { in.CustomerPhone = " " }, ErrCustomerInfoRequired},
		{"no lines", func(in *CreateOrderInput) { in.Lines = nil }, ErrOrderLineRequired},
		{"zero quantity", func(in *CreateOrderInput) { in.Lines = []OrderLineInput{{ProductID: product.ID}} }, ErrInvalidOrderLine},
	}
	for _, tc := range cases {
		in := base
		tc.mutate(&in)
		if _, err := f.orders.Create(in); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}

	unknownShop := base
	unknownShop.ShopID = 999
	if _, err := f.orders.Create(unknownShop); !errors.Is(err, ErrShopNotFound) {
		t.Errorf("unknown shop: err = %v, want ErrShopNotFound", err)
	}

	closed := &models.Shop{Name: "Boutique Fermée", Active: false}
	if err := f.shopRepo.Create(closed); err != nil {
		t.Fatalf("create shop: %v", err)
	}
	inactive := base
	inactive.ShopID = closed.ID
	if _, err := f.orders.Create(inactive); !errors.Is(err, ErrShopInactive) {
		t.Errorf("inactive shop: err = %v, want ErrShopInactive", err)
	}
}

func TestCreateOrderStockAdmission(t *testing.T) {
	f := setupServiceTest(t)
	tracked := f.createProduct(t, "Galette des rois", 18.00, withStock(3))

	// Three single-unit orders drain the stock.
	for i := 0; i < 3; i++ {
		f.createOrder(t, OrderLineInput{ProductID: tracked.ID, Quantity: 1})
	}
	p, _ := f.productRepo.GetByID(tracked.ID)
	if p.CurrentStock != 0 {
		t.Fatalf("stock after three orders = %d, want 0", p.CurrentStock)
	}

	// The fourth is rejected and leaves no trace.
	_, err := f.orders.Create(CreateOrderInput{
		ShopID:            f.shop.ID,
		PickupDate:        time.Now().AddDate(0, 0, 1),
		CustomerName:      "Durand",
		CustomerFirstname: "Paul",
		CustomerPhone:     "0600000002",
		Lines:             []OrderLineInput{{ProductID: tracked.ID, Quantity: 1}},
		CreatedBy:         "vendeur-test",
	})
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("fourth order: err = %v, want ErrStockInsufficient", err)
	}
	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	if count != 3 {
		t.Fatalf("orders = %d, want 3", count)
	}
}

func TestCreateOrderUnlimitedStockAlwaysPasses(t *testing.T) {
	f := setupServiceTest(t)
	unlimited := f.createProduct(t, "Croissant", 1.20)

	order := f.createOrder(t, OrderLineInput{ProductID: unlimited.ID, Quantity: 500})
	if order.Lines[0].Quantity != 500 {
		t.Fatalf("quantity = %d, want 500", order.Lines[0].Quantity)
	}
}

func TestCreateOrderInactiveProductRejected(t *testing.T) {
	f := setupServiceTest(t)
	retired := f.createProduct(t, "Ancienne recette", 5.00, func(p *models.Product) { p.Active = false })

	_, err := f.orders.Create(CreateOrderInput{
		ShopID:            f.shop.ID,
		PickupDate:        time.Now().AddDate(0, 0, 1),
		CustomerName:      "Martin",
		CustomerFirstname: "Claire",
		CustomerPhone:     "0600000001",
		Lines:             []OrderLineInput{{ProductID: retired.ID, Quantity: 1}},
		CreatedBy:         "vendeur-test",
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("inactive product: err = %v, want ErrProductNotFound", err)
	}
}

func TestGetMissingOrder(t *testing.T) {
	f := setupServiceTest(t)
	if _, err := f.orders.Get(12345); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("get missing order: err = %v, want ErrOrderNotFound", err)
	}
}
