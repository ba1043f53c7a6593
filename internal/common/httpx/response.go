package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 所有 JSON 接口统一使用的响应包
type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data"`
	Errors  []string `json:"errors"`
}

func Success[T any](data T, message string) Response[T] {
	return Response[T]{Success: true, Message: message, Data: &data, Errors: []string{}}
}

func Failure[T any](message string, errs ...string) Response[T] {
	if errs == nil {
		errs = []string{}
	}
	return Response[T]{Success: false, Message: message, Errors: errs}
}

// OK 写入 200 成功响应
func OK[T any](c *gin.Context, data T, message string) {
	c.JSON(http.StatusOK, Success(data, message))
}

// Created 写入 201 成功响应
func Created[T any](c *gin.Context, data T, message string) {
	c.JSON(http.StatusCreated, Success(data, message))
}

// Fail 写入失败响应，data 为 null
func Fail(c *gin.Context, status int, message string, errs ...string) {
	c.JSON(status, Failure[any](message, errs...))
}
