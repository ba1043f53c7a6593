package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"image-upload-server/internal/config"
	"image-upload-server/internal/logging"
	"image-upload-server/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RedisLimiter 固定窗口计数：每个窗口内最多 limit 次。
// Redis 出错时退回进程内限流。
type RedisLimiter struct {
	client   *redis.Client
	prefix   string
	limit    int64
	window   time.Duration
	fallback Limiter
}

func NewRedisLimiter(client *redis.Client, prefix string, rps float64, burst int) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		prefix:   prefix,
		limit:    int64(burst),
		window:   windowFor(rps, burst),
		fallback: NewIPRateLimiter(rate.Limit(rps), burst),
	}
}

// windowFor 让窗口内的配额等于 burst，平均速率等于 rps，最短 1 秒
func windowFor(rps float64, burst int) time.Duration {
	if rps <= 0 {
		return time.Second
	}
	seconds := math.Ceil(float64(burst) / rps)
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	ok, err := allowByRedisWindow(ctx, l.client, l.prefix, key, l.limit, l.window)
	if err != nil {
		logging.Warn("Redis 限流不可用，降级为内存限流", zap.Error(err))
		return l.fallback.Allow(ctx, key)
	}
	return ok, nil
}

func allowByRedisWindow(ctx context.Context, client *redis.Client, prefix, key string, limit int64, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	if client == nil {
		return false, fmt.Errorf("redis 客户端未初始化")
	}

	slot := time.Now().UnixNano() / int64(window)
	redisKey := service.RedisKey(prefix, "ratelimit", "upload", key, strconv.FormatInt(slot, 10))

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	count, err := client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := client.Expire(ctx, redisKey, window+time.Second).Err(); err != nil {
			return false, err
		}
	}
	return count <= limit, nil
}

// NewLimiter 按配置创建上传限流器；关闭限流时返回 nil
func NewLimiter(cfg config.RateLimitConfig, client *redis.Client, prefix string) Limiter {
	if !cfg.Enabled || cfg.UploadRPS <= 0 || cfg.UploadBurst <= 0 {
		return nil
	}
	if client != nil {
		return NewRedisLimiter(client, prefix, cfg.UploadRPS, cfg.UploadBurst)
	}
	return NewIPRateLimiter(rate.Limit(cfg.UploadRPS), cfg.UploadBurst)
}
