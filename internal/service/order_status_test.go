package service

import (
	"errors"
	"testing"

	"github.com/fournil-next/internal/authz"
	"github.com/fournil-next/internal/constants"
)

func TestTransitionAllowedTable(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{constants.OrderStatusRegistered, constants.OrderStatusInDelivery, true},
		{constants.OrderStatusRegistered, constants.OrderStatusPickedUp, true},
		{constants.OrderStatusRegistered, constants.OrderStatusCancelled, true},
		{constants.OrderStatusRegisteredModified, constants.OrderStatusInDelivery, true},
		{constants.OrderStatusInDelivery, constants.OrderStatusPickedUp, true},
		{constants.OrderStatusPickedUp, constants.OrderStatusRegistered, true},
		{constants.OrderStatusCancelled, constants.OrderStatusRegistered, false},
		{constants.OrderStatusCancelled, constants.OrderStatusPickedUp, false},
		{constants.OrderStatusInDelivery, constants.OrderStatusRegistered, false},
		{constants.OrderStatusRegistered, constants.OrderStatusRegistered, false},
	}
	for _, tc := range cases {
		if got := TransitionAllowed(tc.from, tc.to); got != tc.want {
			t.Errorf("TransitionAllowed(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStatusTransitionWritesOneHistoryEntry(t *testing.T) {
	f := setupServiceTest(t)
	product := f.createProduct(t, "Tarte citron", 15.00)
	order := f.createOrder(t, OrderLineInput{ProductID: product.ID, Quantity: 1})

	if got := f.historyCount(t, order.ID); got != 1 {
		t.Fatalf("history after creation = %d, want 1", got)
	}

	policy := authz.StatusPolicyForRole(constants.RoleAdmin)
	updated, err := f.status.Transition(StatusTransitionInput{
		OrderID:   order.ID,
		NewStatus: constants.OrderStatusInDelivery,
		Actor:     "production-test",
		Policy:    policy,
	})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if updated.Status != constants.OrderStatusInDelivery {
		t.Fatalf("status = %q, want %q", updated.Status, constants.OrderStatusInDelivery)
	}
	if updated.Version != order.Version+1 {
		t.Fatalf("version = %d, want %d", updated.Version, order.Version+1)
	}
	if got := f.historyCount(t, order.ID); got != 2 {
		t.Fatalf("history after transition = %d, want 2", got)
	}

	entries, _ := f.orderRepo.ListHistory(order.ID)
	latest := entries[0]
	if latest.OldStatus != constants.OrderStatusRegistered || latest.NewStatus != constants.OrderStatusInDelivery {
		t.Fatalf("ledger entry %q -> %q, want %q -> %q",
			latest.OldStatus, latest.NewStatus,
			constants.OrderStatusRegistered, constants.OrderStatusInDelivery)
	}
}

func TestCancelRequiresReason(t *testing.T) {
	f := setupServiceTest(t)
	product := f.createProduct(t, "Éclair chocolat", 3.50)
	order := f.createOrder(t, OrderLineInput{ProductID: product.ID, Quantity: 2})

	policy := authz.StatusPolicyForRole(constants.RoleVendeur)
	if _, err := f.status.Cancel(order.ID, "vendeur-test", "", policy); !errors.Is(err, ErrCancelReasonRequired) {
		t.Fatalf("cancel without reason: err = %v, want ErrCancelReasonRequired", err)
	}

	updated, err := f.status.Cancel(order.ID, "vendeur-test", "client absent", policy)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if updated.Status != constants.OrderStatusCancelled {
		t.Fatalf("status = %q, want %q", updated.Status, constants.OrderStatusCancelled)
	}

	entries, _ := f.orderRepo.ListHistory(order.ID)
	if entries[0].Comment != "client absent" {
		t.Fatalf("cancel comment = %q, want %q", entries[0].Comment, "client absent")
	}

	// Terminal state rejects further transitions.
	if _, err := f.status.Transition(StatusTransitionInput{
		OrderID:   order.ID,
		NewStatus: constants.OrderStatusRegistered,
		Actor:     "admin-test",
		Policy:    authz.StatusPolicyForRole(constants.RoleAdmin),
	}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("transition out of cancelled: err = %v, want ErrInvalidTransition", err)
	}
}

func TestFrontLineRoleCannotSetDeliveryStatus(t *testing.T) {
	f := setupServiceTest(t)
	product := f.createProduct(t, "Croissant", 1.20)
	order := f.createOrder(t, OrderLineInput{ProductID: product.ID, Quantity: 4})

	policy := authz.StatusPolicyForRole(constants.RoleBoutique)
	if _, err := f.status.Transition(StatusTransitionInput{
		OrderID:   order.ID,
		NewStatus: constants.OrderStatusInDelivery,
		Actor:     "boutique-test",
		Policy:    policy,
	}); !errors.Is(err, ErrStatusNotAllowed) {
		t.Fatalf("boutique setting En livraison: err = %v, want ErrStatusNotAllowed", err)
	}

	// The same role may still mark the pickup.
	if _, err := f.status.Transition(StatusTransitionInput{
		OrderID:   order.ID,
		NewStatus: constants.OrderStatusPickedUp,
		Actor:     "boutique-test",
		Policy:    policy,
	}); err != nil {
		t.Fatalf("boutique marking pickup: %v", err)
	}
}

func TestPickupCorrectionBackToRegistered(t *testing.T) {
	f := setupServiceTest(t)
	product := f.createProduct(t, "Brioche", 6.50)
	order := f.createOrder(t, OrderLineInput{ProductID: product.ID, Quantity: 1})

	policy := authz.StatusPolicyForRole(constants.RoleAdmin)
	if _, err := f.status.Transition(StatusTransitionInput{
		OrderID: order.ID, NewStatus: constants.OrderStatusPickedUp, Actor: "a", Policy: policy,
	}); err != nil {
		t.Fatalf("mark pickup: %v", err)
	}
	updated, err := f.status.Transition(StatusTransitionInput{
		OrderID: order.ID, NewStatus: constants.OrderStatusRegistered, Actor: "a", Policy: policy,
	})
	if err != nil {
		t.Fatalf("correction: %v", err)
	}
	if updated.Status != constants.OrderStatusRegistered {
		t.Fatalf("status = %q, want %q", updated.Status, constants.OrderStatusRegistered)
	}
}

func TestCancellationRestoresTrackedStock(t *testing.T) {
	f := setupServiceTest(t)
	product := f.createProduct(t, "Galette des rois", 18.00, withStock(10))
	order := f.createOrder(t, OrderLineInput{ProductID: product.ID, Quantity: 3})

	after, err := f.productRepo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if after.CurrentStock != 7 {
		t.Fatalf("stock after order = %d, want 7", after.CurrentStock)
	}

	if _, err := f.status.Cancel(order.ID, "admin-test", "erreur de saisie",
		authz.StatusPolicyForRole(constants.RoleAdmin)); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	restored, _ := f.productRepo.GetByID(product.ID)
	if restored.CurrentStock != 10 {
		t.Fatalf("stock after cancel = %d, want 10", restored.CurrentStock)
	}
}
