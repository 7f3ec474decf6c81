package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/fournil-next/internal/authz"
	"github.com/fournil-next/internal/http/response"
	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/provider"
	"github.com/fournil-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID tags every request with a uuid, honoring an inbound header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(response.RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger logs one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		logger.Infow("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(response.RequestIDKey),
		)
	}
}

// CORS applies the configured cross-origin policy.
func CORS(origins, methods, headers []string, allowCredentials bool, maxAge int) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	methodList := strings.Join(methods, ", ")
	headerList := strings.Join(headers, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			if allowAll && !allowCredentials {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			if allowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			c.Header("Access-Control-Allow-Methods", methodList)
			c.Header("Access-Control-Allow-Headers", headerList)
			if maxAge > 0 {
				c.Header("Access-Control-Max-Age", strconv.Itoa(maxAge))
			}
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// StaffAuth validates the bearer token, resolves the account and computes
// the status capability policy once for the request.
func StaffAuth(c *provider.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.AbortError(ctx, response.CodeUnauthorized, "missing bearer token")
			return
		}
		claims, err := c.AuthService.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.AbortError(ctx, response.CodeUnauthorized, "invalid or expired token")
			return
		}
		user, err := c.AuthService.GetUser(claims.UserID)
		if err != nil || !user.Active {
			response.AbortError(ctx, response.CodeUnauthorized, "account unavailable")
			return
		}

		ctx.Set(provider.ContextClaimsKey, claims)
		ctx.Set(provider.ContextUserKey, user)
		ctx.Set(provider.ContextPolicyKey, authz.StatusPolicyForRole(user.Role))
		ctx.Next()
	}
}

// Authorize enforces the role policy for the request path and method.
func Authorize(c *provider.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := ctx.MustGet(provider.ContextClaimsKey).(*service.StaffClaims)
		if !ok {
			response.AbortError(ctx, response.CodeUnauthorized, "missing session")
			return
		}
		obj := strings.TrimPrefix(ctx.Request.URL.Path, APIPrefix)
		// Session introspection is open to every authenticated role.
		if strings.HasPrefix(obj, "/auth/") {
			ctx.Next()
			return
		}
		allowed, err := c.Authz.EnforceRole(claims.Role, obj, ctx.Request.Method)
		if err != nil {
			logger.Errorw("authorization check failed", "error", err, "path", ctx.Request.URL.Path)
			response.AbortError(ctx, response.CodeServerError, "authorization unavailable")
			return
		}
		if !allowed {
			response.AbortError(ctx, response.CodeForbidden, "operation not permitted for role")
			return
		}
		ctx.Next()
	}
}
