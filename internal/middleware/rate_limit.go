package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter 按 key（通常是客户端 IP）判断是否放行
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	return i.getLimiter(key).Allow(), nil
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		return v.(*client).touch()
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		return v.(*client).touch()
	}

	c := &client{limiter: rate.NewLimiter(i.r, i.b), lastSeen: time.Now()}
	i.ips.Store(ip, c)
	return c.limiter
}

func (c *client) touch() *rate.Limiter {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
	return c.limiter
}

func (c *client) idleSince(t time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen.Before(t)
}

func (i *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		i.evictIdle(3 * time.Minute)
	}
}

func (i *IPRateLimiter) evictIdle(idle time.Duration) {
	cutoff := time.Now().Add(-idle)
	i.ips.Range(func(key, value interface{}) bool {
		if value.(*client).idleSince(cutoff) {
			i.ips.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware 对上传接口按客户端 IP 限流；limiter 为 nil 表示关闭限流。
// limiter 出错时放行，避免缓存故障阻断上传。
func RateLimitMiddleware(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		ok, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logging.Warn("限流检查失败，已放行", zap.String("client_ip", c.ClientIP()), zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			httpx.Fail(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
