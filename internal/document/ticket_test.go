package document

import (
	"strings"
	"testing"
	"time"

	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/models"
)

func TestRenderTicket(t *testing.T) {
	order := &models.Order{
		OrderNumber:       "CMD-20260830-000042",
		PickupDate:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CustomerName:      "Martin",
		CustomerFirstname: "Claire",
		CustomerPhone:     "0600000001",
		TotalAmount:       models.NewMoneyFromFloat(40.50),
		Status:            constants.OrderStatusRegistered,
		Shop:              &models.Shop{Name: "Boutique Centre"},
		Lines: []models.OrderLine{
			{ProductName: "Tarte citron", Quantity: 2, Subtotal: models.NewMoneyFromFloat(30)},
			{ProductName: "Éclair chocolat", Quantity: 3, Customization: "sans gluten", Subtotal: models.NewMoneyFromFloat(10.50)},
		},
	}

	ticket, err := RenderTicket(order)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"CMD-20260830-000042",
		"Claire Martin",
		"01/09/2026",
		"Boutique Centre",
		"2 x Tarte citron",
		"(sans gluten)",
		"TOTAL : 40.50 EUR",
	} {
		if !strings.Contains(ticket, want) {
			t.Errorf("ticket missing %q:\n%s", want, ticket)
		}
	}
}
