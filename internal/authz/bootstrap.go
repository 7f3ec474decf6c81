package authz

import (
	"fmt"

	"github.com/fournil-next/internal/constants"
)

// RoleSeed defines one builtin role and its route permissions.
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds is the builtin role matrix. Front-line roles work on
// orders and the delivery checklist; production reads reports; admin owns
// the catalog and staff management.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleVendeur,
			Policies: []Policy{
				{Object: "/orders", Action: "*"},
				{Object: "/orders/:id", Action: "*"},
				{Object: "/orders/:id/status", Action: "POST"},
				{Object: "/orders/:id/cancel", Action: "POST"},
				{Object: "/orders/:id/history", Action: "GET"},
				{Object: "/orders/:id/modifications", Action: "GET"},
				{Object: "/orders/:id/pdf", Action: "GET"},
				{Object: "/orders/:id/remind", Action: "POST"},
				{Object: "/products", Action: "GET"},
				{Object: "/categories", Action: "GET"},
				{Object: "/shops", Action: "GET"},
			},
		},
		{
			Role: constants.RoleBoutique,
			Policies: []Policy{
				{Object: "/orders", Action: "GET"},
				{Object: "/orders/:id", Action: "GET"},
				{Object: "/orders/:id/status", Action: "POST"},
				{Object: "/orders/:id/cancel", Action: "POST"},
				{Object: "/orders/:id/history", Action: "GET"},
				{Object: "/orders/:id/modifications", Action: "GET"},
				{Object: "/orders/:id/pdf", Action: "GET"},
				{Object: "/delivery", Action: "GET"},
				{Object: "/delivery/check", Action: "POST"},
				{Object: "/delivery/uncheck", Action: "POST"},
				{Object: "/products", Action: "GET"},
				{Object: "/categories", Action: "GET"},
				{Object: "/shops", Action: "GET"},
			},
		},
		{
			Role: constants.RoleProduction,
			Policies: []Policy{
				{Object: "/orders", Action: "GET"},
				{Object: "/orders/:id", Action: "GET"},
				{Object: "/orders/:id/status", Action: "POST"},
				{Object: "/orders/:id/cancel", Action: "POST"},
				{Object: "/orders/:id/history", Action: "GET"},
				{Object: "/orders/:id/modifications", Action: "GET"},
				{Object: "/products/:id/stock", Action: "PUT"},
				{Object: "/reports/production", Action: "GET"},
				{Object: "/delivery", Action: "GET"},
				{Object: "/delivery/check", Action: "POST"},
				{Object: "/delivery/uncheck", Action: "POST"},
				{Object: "/products", Action: "GET"},
				{Object: "/categories", Action: "GET"},
				{Object: "/shops", Action: "GET"},
			},
		},
		{
			Role: constants.RoleAdmin,
			Policies: []Policy{
				{Object: "/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles installs the builtin role policies, idempotently.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		subject := SubjectForRole(seed.Role)
		for _, policy := range seed.Policies {
			exists, err := s.enforcer.HasPolicy(subject, policy.Object, policy.Action)
			if err != nil {
				return fmt.Errorf("check builtin policy failed: %w", err)
			}
			if exists {
				continue
			}
			if _, err := s.enforcer.AddPolicy(subject, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
