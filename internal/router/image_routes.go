package router

import (
	"image-upload-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerImageRoutes(api *gin.RouterGroup, upload []gin.HandlerFunc, h *handler.ImageHandler) {
	images := api.Group("/images")
	{
		uploads := images.Group("", upload...)
		uploads.POST("/upload/:customerId", h.UploadImages)
		uploads.POST("/upload-base64", h.UploadBase64)

		images.GET("/customer/:customerId", h.ListCustomerImages)
		images.GET("/count/:customerId", h.GetImageCount)
		images.GET("/serve/:id", h.ServeImage)
		images.GET("/base64/:id", h.GetImageBase64)
		images.GET("/:id", h.GetImage)
		images.DELETE("/:id", h.DeleteImage)
	}
}
