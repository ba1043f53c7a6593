package handler

import (
	"net/http"
	"strconv"

	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/config"
	"image-upload-server/internal/service"

	"github.com/gin-gonic/gin"
)

// ImageURLPrefix 磁盘图片访问地址的前缀
type ImageURLPrefix string

func ProvideImageURLPrefix() ImageURLPrefix {
	return ImageURLPrefix(config.Get().Upload.URLPrefix)
}

type CustomerHandler struct {
	customerService *service.CustomerService
	urlPrefix       string
}

type ImageHandler struct {
	imageService *service.ImageService
	urlPrefix    string
}

func NewCustomerHandler(customerService *service.CustomerService, urlPrefix ImageURLPrefix) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, urlPrefix: string(urlPrefix)}
}

func NewImageHandler(imageService *service.ImageService, urlPrefix ImageURLPrefix) *ImageHandler {
	return &ImageHandler{imageService: imageService, urlPrefix: string(urlPrefix)}
}

// parseIDParam 解析路径中的正整数 ID，失败时直接写入 400
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httpx.Fail(c, http.StatusBadRequest, "无效的 ID", name+" 必须是正整数")
		return 0, false
	}
	return uint(id), true
}

// errorMessage 取业务错误的提示；其它错误只给出兜底信息
func errorMessage(err error, fallback string) string {
	if serviceErr, ok := service.AsServiceError(err); ok && serviceErr.Code != service.ErrorCodeInternal {
		return serviceErr.Message
	}
	return fallback
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
