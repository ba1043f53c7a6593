package router

import (
	"image-upload-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerCustomerRoutes(api *gin.RouterGroup, h *handler.CustomerHandler) {
	customers := api.Group("/customers")
	{
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.POST("", h.CreateCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
	}
}
