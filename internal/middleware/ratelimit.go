package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL         = 10 * time.Minute
	limiterCleanupInterval = time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit 按客户端 IP 维护令牌桶，超限返回 429。
// 进程内限流，闲置的桶会被顺手清理以控制内存。
func RateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	var (
		mu          sync.Mutex
		clients     = make(map[string]*client)
		lastCleanup = time.Now()
	)

	return func(c *gin.Context) {
		key := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastCleanup) > limiterCleanupInterval {
			for ip, entry := range clients {
				if now.Sub(entry.lastSeen) > limiterIdleTTL {
					delete(clients, ip)
				}
			}
			lastCleanup = now
		}

		entry, ok := clients[key]
		if !ok {
			entry = &client{limiter: rate.NewLimiter(limit, burst)}
			clients[key] = entry
		}
		entry.lastSeen = now
		allowed := entry.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
