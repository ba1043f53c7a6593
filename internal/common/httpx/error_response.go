package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"image-upload-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// WriteServiceError 把业务错误映射为 HTTP 状态码；非业务错误统一返回 500 和 fallbackMessage
func WriteServiceError(c *gin.Context, err error, fallbackMessage string) {
	if serviceErr, ok := service.AsServiceError(err); ok {
		message := serviceErr.Message
		if serviceErr.Code == service.ErrorCodeInternal && fallbackMessage != "" {
			message = fallbackMessage
		}
		Fail(c, ServiceErrorStatus(serviceErr.Code), message, serviceErr.Message)
		return
	}
	Fail(c, http.StatusInternalServerError, fallbackMessage)
}

func ServiceErrorStatus(code service.ErrorCode) int {
	switch code {
	case service.ErrorCodeValidation, service.ErrorCodeLimitReached:
		return http.StatusBadRequest
	case service.ErrorCodeForbidden:
		return http.StatusForbidden
	case service.ErrorCodeConflict:
		return http.StatusConflict
	case service.ErrorCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteBindError 参数绑定失败时逐字段列出原因
func WriteBindError(c *gin.Context, err error) {
	Fail(c, http.StatusBadRequest, "请求参数错误", BindErrorMessages(err)...)
}

func BindErrorMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s 为必填项", field)
	case "max":
		return fmt.Sprintf("%s 长度不能超过 %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s 不是有效的邮箱地址", field)
	default:
		return fmt.Sprintf("%s 校验失败: %s", field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
