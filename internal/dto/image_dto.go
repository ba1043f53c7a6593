package dto

import (
	"strconv"
	"strings"

	"image-upload-server/internal/model"
)

// Base64UploadRequest 内容与类型的空值检查交给上传流程，以保证错误顺序一致
type Base64UploadRequest struct {
	CustomerID  uint    `json:"customerId" binding:"required"`
	FileName    string  `json:"fileName" binding:"required,max=255"`
	ContentType string  `json:"contentType" binding:"max=100"`
	Base64Data  string  `json:"base64Data"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ImageResponse 磁盘图片附带可访问的 URL，行内图片直接携带 base64Data
type ImageResponse struct {
	model.Image
	URL string `json:"url,omitempty"`
}

type BatchUploadResponse struct {
	Uploaded []ImageResponse `json:"uploaded"`
}

func NewImageResponse(image model.Image, urlPrefix string) ImageResponse {
	resp := ImageResponse{Image: image}
	if image.IsFilesystem() {
		resp.URL = ServeURL(urlPrefix, image.ID)
	}
	return resp
}

func NewImageResponses(images []model.Image, urlPrefix string) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for _, image := range images {
		out = append(out, NewImageResponse(image, urlPrefix))
	}
	return out
}

func NewCustomerResponse(customer model.Customer, urlPrefix string) CustomerResponse {
	return CustomerResponse{
		Customer: customer,
		Images:   NewImageResponses(customer.Images, urlPrefix),
	}
}

func NewCustomerResponses(customers []model.Customer, urlPrefix string) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, NewCustomerResponse(c, urlPrefix))
	}
	return out
}

// ServeURL 拼接图片原始内容的访问地址
func ServeURL(prefix string, id uint) string {
	if prefix == "" {
		prefix = "/api/images/serve/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + strconv.FormatUint(uint64(id), 10)
}
