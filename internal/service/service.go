package service

import (
	"image-upload-server/internal/config"
	"image-upload-server/internal/consts"
	repo "image-upload-server/internal/repository"
	"image-upload-server/internal/storage"
)

// UploadLimits 上传相关的限制，来自 upload 配置段
type UploadLimits struct {
	MaxImages     int
	MaxBytes      int64
	VerifyContent bool
}

func LimitsFromConfig(cfg config.UploadConfig) UploadLimits {
	maxImages := cfg.MaxImages
	if maxImages <= 0 {
		maxImages = consts.MaxImagesPerCustomer
	}
	return UploadLimits{
		MaxImages:     maxImages,
		MaxBytes:      cfg.MaxUploadBytes(),
		VerifyContent: cfg.VerifyContent,
	}
}

// ProvideUploadLimits 读取当前配置快照
func ProvideUploadLimits() UploadLimits {
	return LimitsFromConfig(config.Get().Upload)
}

type ImageService struct {
	customerStore repo.CustomerStore
	imageStore    repo.ImageStore
	backend       storage.Backend
	limits        UploadLimits
}

type CustomerService struct {
	customerStore repo.CustomerStore
	backend       storage.Backend
}

func NewImageService(customerStore repo.CustomerStore, imageStore repo.ImageStore, backend storage.Backend, limits UploadLimits) *ImageService {
	return &ImageService{
		customerStore: customerStore,
		imageStore:    imageStore,
		backend:       backend,
		limits:        limits,
	}
}

func NewCustomerService(customerStore repo.CustomerStore, backend storage.Backend) *CustomerService {
	return &CustomerService{customerStore: customerStore, backend: backend}
}
