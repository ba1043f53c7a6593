package main

import (
	"time"

	"image-upload-server/internal/config"
	"image-upload-server/internal/logging"
	"image-upload-server/internal/web/client"
	"image-upload-server/internal/web/handler"
	"image-upload-server/internal/web/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "启动网页前端，所有数据经由 API 服务读写",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		r, err := buildWebEngine(cfg)
		if err != nil {
			return err
		}
		printWelcomeMessage("Web", cfg.Web.Port)
		return serve(":"+cfg.Web.Port, r, logging.SourceWeb)
	},
}

func buildWebEngine(cfg config.Config) (*gin.Engine, error) {
	api, err := client.New(cfg.Web.APIBaseURL, time.Duration(cfg.Web.TimeoutSeconds)*time.Second)
	if err != nil {
		return nil, err
	}
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	h := handler.New(
		service.NewCustomerService(api),
		service.NewImageService(api, cfg.Upload.MaxUploadBytes()),
	)
	r, err := handler.NewEngine(h)
	if err != nil {
		return nil, err
	}
	logging.Info("网页前端已初始化", zap.String("api", cfg.Web.APIBaseURL))
	return r, nil
}
