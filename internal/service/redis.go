package service

import (
	"context"
	"strings"
	"time"

	"image-upload-server/internal/config"
	"image-upload-server/internal/logging"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient 按配置连接 Redis；未启用或 Ping 失败时返回 nil，调用方降级为内存实现
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logging.Warn("Redis 不可用，降级为内存模式", zap.String("addr", cfg.Addr), zap.Error(err))
		return nil
	}

	logging.Info("Redis 已连接", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client
}

// RedisKey 基于前缀拼接 Redis 键名
func RedisKey(prefix string, parts ...string) string {
	if prefix == "" {
		prefix = "image_upload"
	}
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}
