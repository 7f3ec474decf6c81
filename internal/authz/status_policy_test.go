package authz

import (
	"testing"

	"github.com/fournil-next/internal/constants"
)

func TestStatusPolicyForPrivilegedRoles(t *testing.T) {
	for _, role := range []string{constants.RoleAdmin, constants.RoleProduction} {
		policy := StatusPolicyForRole(role)
		if !policy.CanSetAnyStatus || !policy.CanCancel {
			t.Errorf("%s policy = %+v, want full capabilities", role, policy)
		}
		for _, status := range []string{
			constants.OrderStatusRegistered,
			constants.OrderStatusInDelivery,
			constants.OrderStatusPickedUp,
			constants.OrderStatusCancelled,
		} {
			if !policy.Allows(status) {
				t.Errorf("%s policy refuses %q", role, status)
			}
		}
	}
}

func TestStatusPolicyForFrontLineRoles(t *testing.T) {
	for _, role := range []string{constants.RoleVendeur, constants.RoleBoutique} {
		policy := StatusPolicyForRole(role)
		if policy.CanSetAnyStatus {
			t.Errorf("%s policy grants any status", role)
		}
		if !policy.Allows(constants.OrderStatusPickedUp) {
			t.Errorf("%s policy refuses pickup", role)
		}
		if !policy.Allows(constants.OrderStatusCancelled) {
			t.Errorf("%s policy refuses cancellation", role)
		}
		if policy.Allows(constants.OrderStatusInDelivery) {
			t.Errorf("%s policy grants delivery status", role)
		}
		if policy.Allows(constants.OrderStatusRegisteredModified) {
			t.Errorf("%s policy grants direct modified status", role)
		}
	}
}

func TestStatusPolicyCancelGate(t *testing.T) {
	policy := StatusPolicy{CanCancel: false, AllowedStatuses: []string{constants.OrderStatusPickedUp}}
	if policy.Allows(constants.OrderStatusCancelled) {
		t.Fatalf("policy without cancel capability allows cancellation")
	}
}
