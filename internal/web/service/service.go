// Package service 前端页面使用的服务层，转发到 API 并在上传前做本地预检。
package service

import (
	"context"

	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/dto"
	apiservice "image-upload-server/internal/service"
	"image-upload-server/internal/web/client"
)

// API 前端依赖的接口子集，便于测试替换
type API interface {
	ListCustomers(ctx context.Context) httpx.Response[[]dto.CustomerResponse]
	GetCustomer(ctx context.Context, id uint) httpx.Response[dto.CustomerResponse]
	CreateCustomer(ctx context.Context, req dto.CustomerRequest) httpx.Response[dto.CustomerResponse]
	UpdateCustomer(ctx context.Context, id uint, req dto.CustomerRequest) httpx.Response[dto.CustomerResponse]
	DeleteCustomer(ctx context.Context, id uint) httpx.Response[bool]

	UploadBase64(ctx context.Context, req dto.Base64UploadRequest) httpx.Response[dto.ImageResponse]
	ListCustomerImages(ctx context.Context, customerID uint) httpx.Response[[]dto.ImageResponse]
	DeleteImage(ctx context.Context, id uint) httpx.Response[bool]
	GetImageCount(ctx context.Context, customerID uint) httpx.Response[apiservice.ImageCount]
	GetImageBase64(ctx context.Context, id uint) httpx.Response[apiservice.Base64Image]
}

var _ API = (*client.Client)(nil)

type CustomerService struct {
	api API
}

func NewCustomerService(api API) *CustomerService {
	return &CustomerService{api: api}
}

func (s *CustomerService) List(ctx context.Context) httpx.Response[[]dto.CustomerResponse] {
	return s.api.ListCustomers(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id uint) httpx.Response[dto.CustomerResponse] {
	return s.api.GetCustomer(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, req dto.CustomerRequest) httpx.Response[dto.CustomerResponse] {
	return s.api.CreateCustomer(ctx, req)
}

func (s *CustomerService) Update(ctx context.Context, id uint, req dto.CustomerRequest) httpx.Response[dto.CustomerResponse] {
	return s.api.UpdateCustomer(ctx, id, req)
}

func (s *CustomerService) Delete(ctx context.Context, id uint) httpx.Response[bool] {
	return s.api.DeleteCustomer(ctx, id)
}
