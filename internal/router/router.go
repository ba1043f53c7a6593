package router

import (
	"image-upload-server/internal/config"
	"image-upload-server/internal/handler"
	"image-upload-server/internal/logging"
	"image-upload-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Router struct {
	customerHandler *handler.CustomerHandler
	imageHandler    *handler.ImageHandler
	limiter         middleware.Limiter
}

func NewRouter(customerHandler *handler.CustomerHandler, imageHandler *handler.ImageHandler, limiter middleware.Limiter) *Router {
	return &Router{
		customerHandler: customerHandler,
		imageHandler:    imageHandler,
		limiter:         limiter,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	cfg := config.Get()

	r.Use(middleware.AccessLog(logging.SourceAPI))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	api := r.Group("/api")
	// 上传接口在自己的路由组上单独限制
	api.Use(middleware.BodyLimitMiddleware(0))

	uploadMaxBytes := int64(cfg.Upload.MaxRequestMB) * 1024 * 1024
	if uploadMaxBytes <= 0 {
		uploadMaxBytes = 64 * 1024 * 1024
	}
	upload := []gin.HandlerFunc{
		middleware.UploadBodyLimitMiddleware(uploadMaxBytes),
		middleware.RateLimitMiddleware(rt.limiter),
	}

	registerPublicRoutes(api)
	registerCustomerRoutes(api, rt.customerHandler)
	registerImageRoutes(api, upload, rt.imageHandler)
}
