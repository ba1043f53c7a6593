package handler

import (
	"net/http"

	"image-upload-server/internal/dto"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCustomers(c *gin.Context) {
	p := flashFrom(c, "客户列表")
	resp := h.customers.List(c.Request.Context())
	customers := []dto.CustomerResponse{}
	if resp.Success && resp.Data != nil {
		customers = *resp.Data
	} else {
		p.Errors = append(p.Errors, failure(resp.Message, "获取客户列表失败"))
		p.Errors = append(p.Errors, resp.Errors...)
	}
	c.HTML(http.StatusOK, "customers.html", gin.H{"Page": p, "Customers": customers})
}

func (h *Handler) NewCustomer(c *gin.Context) {
	c.HTML(http.StatusOK, "customer_form.html", gin.H{
		"Page":     flashFrom(c, "新建客户"),
		"Action":   "/customers",
		"Customer": dto.CustomerRequest{},
	})
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	req := customerFromForm(c)
	resp := h.customers.Create(c.Request.Context(), req)
	if !resp.Success || resp.Data == nil {
		c.HTML(http.StatusBadRequest, "customer_form.html", gin.H{
			"Page":     page{Title: "新建客户", Errors: append([]string{failure(resp.Message, "创建客户失败")}, resp.Errors...)},
			"Action":   "/customers",
			"Customer": req,
		})
		return
	}
	redirectWith(c, customerPath(resp.Data.ID), "客户创建成功")
}

func (h *Handler) CustomerDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	resp := h.customers.Get(ctx, id)
	if !resp.Success || resp.Data == nil {
		renderError(c, http.StatusNotFound, failure(resp.Message, "客户不存在"), resp.Errors...)
		return
	}

	p := flashFrom(c, resp.Data.FirstName+" "+resp.Data.LastName)
	data := gin.H{"Page": p, "Customer": resp.Data}
	if count := h.images.Count(ctx, id); count.Success && count.Data != nil {
		data["Count"] = count.Data
	}
	c.HTML(http.StatusOK, "customer_detail.html", data)
}

func (h *Handler) EditCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp := h.customers.Get(c.Request.Context(), id)
	if !resp.Success || resp.Data == nil {
		renderError(c, http.StatusNotFound, failure(resp.Message, "客户不存在"), resp.Errors...)
		return
	}
	cust := resp.Data.Customer
	c.HTML(http.StatusOK, "customer_form.html", gin.H{
		"Page":   flashFrom(c, "编辑客户"),
		"Action": customerPath(id),
		"Customer": dto.CustomerRequest{
			ID:        cust.ID,
			FirstName: cust.FirstName,
			LastName:  cust.LastName,
			Email:     cust.Email,
			Phone:     cust.Phone,
		},
	})
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	req := customerFromForm(c)
	req.ID = id
	resp := h.customers.Update(c.Request.Context(), id, req)
	if !resp.Success {
		c.HTML(http.StatusBadRequest, "customer_form.html", gin.H{
			"Page":     page{Title: "编辑客户", Errors: append([]string{failure(resp.Message, "更新客户失败")}, resp.Errors...)},
			"Action":   customerPath(id),
			"Customer": req,
		})
		return
	}
	redirectWith(c, customerPath(id), "客户更新成功")
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp := h.customers.Delete(c.Request.Context(), id)
	if !resp.Success {
		redirectWith(c, "/customers", "", append([]string{failure(resp.Message, "删除客户失败")}, resp.Errors...)...)
		return
	}
	redirectWith(c, "/customers", "客户已删除")
}

func failure(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
