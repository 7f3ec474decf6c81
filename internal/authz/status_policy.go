package authz

import "github.com/fournil-next/internal/constants"

// StatusPolicy is the per-request capability object injected into the
// order state machine. It replaces ad-hoc role checks: the handler
// computes it once from the acting user's role and the state machine only
// consults the capabilities.
type StatusPolicy struct {
	CanSetAnyStatus bool     `json:"can_set_any_status"`
	CanCancel       bool     `json:"can_cancel"`
	AllowedStatuses []string `json:"allowed_statuses"`
}

// Allows reports whether the policy permits selecting the target status.
func (p StatusPolicy) Allows(status string) bool {
	if p.CanSetAnyStatus {
		return true
	}
	if status == constants.OrderStatusCancelled {
		return p.CanCancel
	}
	for _, allowed := range p.AllowedStatuses {
		if allowed == status {
			return true
		}
	}
	return false
}

// StatusPolicyForRole computes the capability object for a staff role.
// Front-line roles may only mark orders picked up or cancelled; privileged
// roles may select any status.
func StatusPolicyForRole(role string) StatusPolicy {
	switch role {
	case constants.RoleAdmin, constants.RoleProduction:
		return StatusPolicy{
			CanSetAnyStatus: true,
			CanCancel:       true,
			AllowedStatuses: []string{
				constants.OrderStatusRegistered,
				constants.OrderStatusRegisteredModified,
				constants.OrderStatusInDelivery,
				constants.OrderStatusPickedUp,
				constants.OrderStatusCancelled,
			},
		}
	default:
		return StatusPolicy{
			CanSetAnyStatus: false,
			CanCancel:       true,
			AllowedStatuses: []string{
				constants.OrderStatusPickedUp,
				constants.OrderStatusCancelled,
			},
		}
	}
}
