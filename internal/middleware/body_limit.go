package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"image-upload-server/internal/common/httpx"

	"github.com/gin-gonic/gin"
)

const defaultBodyLimit int64 = 2 * 1024 * 1024

// IsUploadPath 上传接口使用单独的请求体限制
func IsUploadPath(path string) bool {
	return strings.Contains(path, "/images/upload")
}

// BodyLimitMiddleware 限制普通 JSON 请求的请求体大小，上传接口跳过
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = defaultBodyLimit
	}
	return func(c *gin.Context) {
		if IsUploadPath(c.Request.URL.Path) {
			c.Next()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// UploadBodyLimitMiddleware 限制上传接口的请求体大小
func UploadBodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes && c.Request.ContentLength != -1 {
			httpx.Fail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("请求体不能超过 %dMB", maxBytes/(1024*1024)))
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
