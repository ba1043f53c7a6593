//go:build wireinject
// +build wireinject

package di

import (
	"image-upload-server/internal/handler"
	"image-upload-server/internal/middleware"
	"image-upload-server/internal/repository"
	"image-upload-server/internal/router"
	"image-upload-server/internal/service"
	"image-upload-server/internal/storage"

	"github.com/google/wire"
	"gorm.io/gorm"
)

func InitializeApplication(gormDB *gorm.DB, backend storage.Backend, limiter middleware.Limiter) (*Application, error) {
	wire.Build(
		repository.NewCustomerRepository,
		repository.NewImageRepository,
		service.ProvideUploadLimits,
		service.NewCustomerService,
		service.NewImageService,
		handler.ProvideImageURLPrefix,
		handler.NewCustomerHandler,
		handler.NewImageHandler,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil
}
