package staff

import (
	"strconv"

	"github.com/fournil-next/internal/authz"
	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// currentUser returns the authenticated staff account.
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(provider.ContextUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// currentPolicy returns the status capability policy computed at auth time.
func currentPolicy(c *gin.Context) authz.StatusPolicy {
	if v, ok := c.Get(provider.ContextPolicyKey); ok {
		if policy, ok := v.(authz.StatusPolicy); ok {
			return policy
		}
	}
	return authz.StatusPolicy{}
}

// actorName identifies the acting user in audit records.
func actorName(c *gin.Context) string {
	user := currentUser(c)
	if user == nil {
		return "inconnu"
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Username
}

// scopedShopID restricts shop-bound roles to their assigned shop. Zero
// means unrestricted.
func scopedShopID(c *gin.Context) uint {
	user := currentUser(c)
	if user == nil {
		return 0
	}
	switch user.Role {
	case constants.RoleAdmin, constants.RoleProduction:
		return 0
	default:
		if user.AssignedShopID != nil {
			return *user.AssignedShopID
		}
		return 0
	}
}

// paramUint parses a numeric path parameter.
func paramUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryInt parses an integer query parameter with a default.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// queryUint parses an unsigned query parameter, zero when absent.
func queryUint(c *gin.Context, name string) uint {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}
