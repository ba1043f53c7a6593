package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/config"
	"image-upload-server/internal/db"
	"image-upload-server/internal/di"
	"image-upload-server/internal/logging"
	"image-upload-server/internal/middleware"
	"image-upload-server/internal/service"
	"image-upload-server/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "启动 JSON API 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		db.InitDB()

		r, redisClient, err := buildAPIEngine(cfg, db.DB)
		if err != nil {
			return err
		}
		if redisClient != nil {
			defer func() { _ = redisClient.Close() }()
		}

		printWelcomeMessage("API", cfg.Server.Port)
		return serve(":"+cfg.Server.Port, r, logging.SourceAPI)
	},
}

// buildAPIEngine 组装 API 路由；返回的 Redis 客户端可能为 nil
func buildAPIEngine(cfg config.Config, gdb *gorm.DB) (*gin.Engine, *redis.Client, error) {
	if cfg.Upload.Storage == config.StorageFilesystem {
		if err := checkSecurePath(cfg.Upload.Path); err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(cfg.Upload.Path, 0o755); err != nil {
			return nil, nil, fmt.Errorf("无法创建上传目录: %w", err)
		}
	}
	backend, err := storage.New(cfg.Upload.Storage, cfg.Upload.Path)
	if err != nil {
		return nil, nil, err
	}

	redisClient := service.NewRedisClient(cfg.Redis)
	limiter := middleware.NewLimiter(cfg.RateLimit, redisClient, cfg.Redis.Prefix)

	app, err := di.InitializeApplication(gdb, backend, limiter)
	if err != nil {
		return nil, redisClient, err
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	app.Router.Init(r)
	r.NoRoute(func(c *gin.Context) {
		httpx.Fail(c, http.StatusNotFound, "接口不存在")
	})

	logging.Info("API 已初始化",
		zap.String("storage", backend.Kind()),
		zap.Bool("redis", redisClient != nil),
		zap.Bool("rate_limit", limiter != nil),
	)
	return r, redisClient, nil
}

// checkSecurePath 磁盘存储目录不能是项目根目录，位于项目内时必须在安全子目录下
func checkSecurePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("路径解析失败: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("无法获取当前工作目录: %w", err)
	}

	if absPath == cwd {
		return fmt.Errorf("安全配置错误: 上传目录 '%s' 不能设置为项目根目录", path)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	allowedDirs := []string{"uploads", "public", "static", "tmp", "data"}
	first := strings.Split(filepath.ToSlash(rel), "/")[0]
	for _, allowed := range allowedDirs {
		if strings.EqualFold(first, allowed) {
			return nil
		}
	}
	return fmt.Errorf("安全配置错误: 上传目录 '%s' 必须位于项目下的安全子目录中 (如 %v)", path, allowedDirs)
}
