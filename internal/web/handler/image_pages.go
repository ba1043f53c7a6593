package handler

import (
	"fmt"
	"net/http"

	"image-upload-server/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) UploadImages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		redirectWith(c, customerPath(id), "", "请选择要上传的文件")
		return
	}
	description := ""
	if values := form.Value["description"]; len(values) > 0 {
		description = values[0]
	}

	result := h.images.Upload(c.Request.Context(), id, form.File["files"], description)
	msg := ""
	if result.Uploaded > 0 {
		msg = fmt.Sprintf("成功上传 %d 张图片", result.Uploaded)
	}
	redirectWith(c, customerPath(id), msg, result.Errors...)
}

func (h *Handler) DeleteImage(c *gin.Context) {
	customerID, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId")
	if !ok {
		return
	}
	resp := h.images.Delete(c.Request.Context(), imageID)
	if !resp.Success {
		redirectWith(c, customerPath(customerID), "", failure(resp.Message, "删除图片失败"))
		return
	}
	redirectWith(c, customerPath(customerID), "图片已删除")
}

// RawImage 转发磁盘存储图片的内容
func (h *Handler) RawImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	data, contentType, err := h.images.Content(c.Request.Context(), id)
	if err != nil {
		logging.Warn("读取图片失败", logging.ImageID(id), zap.Error(err))
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, contentType, data)
}
