package handler

import (
	"fmt"
	"net/http"
	"strings"

	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/consts"
	"image-upload-server/internal/dto"
	"image-upload-server/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadImages 批量上传：按顺序逐个处理，达到数量上限后停止。
// 至少一张成功返回 200（附带失败原因），全部失败返回 400。
func (h *ImageHandler) UploadImages(c *gin.Context) {
	customerID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, "请选择要上传的文件", err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		httpx.Fail(c, http.StatusBadRequest, "请选择要上传的文件")
		return
	}
	if len(files) > consts.MaxBatchUploadFiles {
		httpx.Fail(c, http.StatusBadRequest, fmt.Sprintf("单次最多上传 %d 个文件", consts.MaxBatchUploadFiles))
		return
	}

	var description *string
	if values := form.Value["description"]; len(values) > 0 {
		description = &values[0]
	}

	uploaded := make([]dto.ImageResponse, 0, len(files))
	errs := make([]string, 0)
	for _, file := range files {
		image, err := h.imageService.UploadFile(customerID, file, description)
		if err == nil {
			uploaded = append(uploaded, dto.NewImageResponse(*image, h.urlPrefix))
			continue
		}
		if service.IsCode(err, service.ErrorCodeNotFound) && len(uploaded) == 0 {
			httpx.WriteServiceError(c, err, "上传失败")
			return
		}
		errs = append(errs, fmt.Sprintf("%s: %s", file.Filename, errorMessage(err, "上传失败，请稍后重试")))
		if service.IsCode(err, service.ErrorCodeLimitReached) {
			break
		}
	}

	if len(uploaded) == 0 {
		httpx.Fail(c, http.StatusBadRequest, "没有图片上传成功", errs...)
		return
	}
	resp := httpx.Success(uploaded, fmt.Sprintf("成功上传 %d 张图片", len(uploaded)))
	resp.Errors = errs
	c.JSON(http.StatusOK, resp)
}

func (h *ImageHandler) UploadBase64(c *gin.Context) {
	var req dto.Base64UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBindError(c, err)
		return
	}

	image, err := h.imageService.UploadBase64(service.UploadRequest{
		CustomerID:  req.CustomerID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Description: req.Description,
	}, req.Base64Data)
	if err != nil {
		httpx.WriteServiceError(c, err, "上传失败，请稍后重试")
		return
	}
	httpx.OK(c, dto.NewImageResponse(*image, h.urlPrefix), "上传成功")
}

func (h *ImageHandler) ListCustomerImages(c *gin.Context) {
	customerID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	images, err := h.imageService.ListCustomerImages(customerID)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片列表失败")
		return
	}
	httpx.OK(c, dto.NewImageResponses(images, h.urlPrefix), "")
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	image, err := h.imageService.GetImage(id)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片失败")
		return
	}
	httpx.OK(c, dto.NewImageResponse(*image, h.urlPrefix), "")
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	found, err := h.imageService.DeleteImage(id)
	if err != nil {
		httpx.WriteServiceError(c, err, "删除图片失败")
		return
	}
	if !found {
		httpx.Fail(c, http.StatusNotFound, "图片不存在")
		return
	}
	httpx.OK(c, true, "图片已删除")
}

func (h *ImageHandler) GetImageCount(c *gin.Context) {
	customerID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	count, err := h.imageService.GetImageCount(customerID)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片数量失败")
		return
	}
	httpx.OK(c, count, "")
}

// ServeImage 直接返回图片二进制内容
func (h *ImageHandler) ServeImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	image, data, err := h.imageService.LoadContent(id)
	if err != nil {
		httpx.WriteServiceError(c, err, "读取图片失败")
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, strings.ReplaceAll(image.FileName, `"`, "")))
	c.Data(http.StatusOK, image.ContentType, data)
}

func (h *ImageHandler) GetImageBase64(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	result, err := h.imageService.GetBase64(id)
	if err != nil {
		httpx.WriteServiceError(c, err, "读取图片失败")
		return
	}
	httpx.OK(c, result, "")
}
