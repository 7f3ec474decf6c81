package router

import (
	"fmt"
	"sync"
	"time"

	"github.com/fournil-next/internal/cache"
	"github.com/fournil-next/internal/config"
	"github.com/fournil-next/internal/http/response"
	"github.com/fournil-next/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// loginLimitScript counts attempts per client inside a sliding window and
// flips a block key once the budget is spent. Atomic so concurrent logins
// cannot slip past the limit.
var loginLimitScript = redis.NewScript(`
local attempts = redis.call('INCR', KEYS[1])
if attempts == 1 then
  redis.call('EXPIRE', KEYS[1], ARGV[1])
end
if attempts > tonumber(ARGV[2]) then
  redis.call('SET', KEYS[2], '1', 'EX', ARGV[3])
  return 1
end
return 0
`)

// LoginRateLimit throttles login attempts per client IP. With redis it is
// shared across instances; without it falls back to an in-process counter.
func LoginRateLimit(c *cache.Cache, cfg config.LoginRateLimitConfig) gin.HandlerFunc {
	if cfg.MaxAttempts <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	if c.Enabled() {
		return redisLoginLimit(c, cfg)
	}
	return memoryLoginLimit(cfg)
}

func redisLoginLimit(c *cache.Cache, cfg config.LoginRateLimitConfig) gin.HandlerFunc {
	client := c.Client()
	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()
		countKey := fmt.Sprintf("login_attempts:%s", ip)
		blockKey := fmt.Sprintf("login_block:%s", ip)

		blocked, err := client.Exists(ctx, blockKey).Result()
		if err == nil && blocked > 0 {
			response.AbortError(ctx, response.CodeTooManyRequests, "too many login attempts, retry later")
			return
		}

		res, err := loginLimitScript.Run(ctx, client,
			[]string{countKey, blockKey},
			cfg.WindowSeconds, cfg.MaxAttempts, cfg.BlockSeconds,
		).Int()
		if err != nil {
			// Limiter failure never takes logins down with it.
			logger.Warnw("login rate limit script failed", "error", err)
			ctx.Next()
			return
		}
		if res == 1 {
			response.AbortError(ctx, response.CodeTooManyRequests, "too many login attempts, retry later")
			return
		}
		ctx.Next()
	}
}

type attemptWindow struct {
	count      int
	windowEnd  time.Time
	blockedTil time.Time
}

func memoryLoginLimit(cfg config.LoginRateLimitConfig) gin.HandlerFunc {
	var mu sync.Mutex
	windows := make(map[string]*attemptWindow)

	return func(ctx *gin.Context) {
		now := time.Now()
		ip := ctx.ClientIP()

		mu.Lock()
		w, ok := windows[ip]
		if !ok || now.After(w.windowEnd) {
			w = &attemptWindow{windowEnd: now.Add(time.Duration(cfg.WindowSeconds) * time.Second)}
			windows[ip] = w
		}
		if now.Before(w.blockedTil) {
			mu.Unlock()
			response.AbortError(ctx, response.CodeTooManyRequests, "too many login attempts, retry later")
			return
		}
		w.count++
		if w.count > cfg.MaxAttempts {
			w.blockedTil = now.Add(time.Duration(cfg.BlockSeconds) * time.Second)
			mu.Unlock()
			response.AbortError(ctx, response.CodeTooManyRequests, "too many login attempts, retry later")
			return
		}
		mu.Unlock()
		ctx.Next()
	}
}
