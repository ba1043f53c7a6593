package handler

import (
	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/consts"

	"github.com/gin-gonic/gin"
)

type PingResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func Ping(c *gin.Context) {
	httpx.OK(c, PingResponse{Name: consts.ApplicationName, Version: consts.ApplicationVersion}, "pong")
}
