package handler

import (
	"net/http"

	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/dto"
	"image-upload-server/internal/service"

	"github.com/gin-gonic/gin"
)

func toCustomerInput(req dto.CustomerRequest) service.CustomerInput {
	return service.CustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.List()
	if err != nil {
		httpx.WriteServiceError(c, err, "获取客户列表失败")
		return
	}
	httpx.OK(c, dto.NewCustomerResponses(customers, h.urlPrefix), "")
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.Get(id)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取客户失败")
		return
	}
	httpx.OK(c, dto.NewCustomerResponse(*customer, h.urlPrefix), "")
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBindError(c, err)
		return
	}

	customer, err := h.customerService.Create(toCustomerInput(req))
	if err != nil {
		httpx.WriteServiceError(c, err, "创建客户失败")
		return
	}
	c.Header("Location", c.FullPath()+"/"+formatID(customer.ID))
	httpx.Created(c, dto.NewCustomerResponse(*customer, h.urlPrefix), "客户创建成功")
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteBindError(c, err)
		return
	}

	customer, err := h.customerService.Update(id, req.ID, toCustomerInput(req))
	if err != nil {
		httpx.WriteServiceError(c, err, "更新客户失败")
		return
	}
	httpx.OK(c, dto.NewCustomerResponse(*customer, h.urlPrefix), "客户更新成功")
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.customerService.Delete(id); err != nil {
		httpx.WriteServiceError(c, err, "删除客户失败")
		return
	}
	c.JSON(http.StatusOK, httpx.Success(true, "客户已删除"))
}
