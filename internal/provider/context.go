package provider

// Gin context keys set by the auth middleware and read by the handlers.
const (
	ContextUserKey   = "staff_user"
	ContextClaimsKey = "staff_claims"
	ContextPolicyKey = "status_policy"
)
