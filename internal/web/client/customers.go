package client

import (
	"context"
	"net/http"

	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/dto"
)

func (c *Client) ListCustomers(ctx context.Context) httpx.Response[[]dto.CustomerResponse] {
	return call[[]dto.CustomerResponse](ctx, c, http.MethodGet, "api/customers", nil, "")
}

func (c *Client) GetCustomer(ctx context.Context, id uint) httpx.Response[dto.CustomerResponse] {
	return call[dto.CustomerResponse](ctx, c, http.MethodGet, idPath("api/customers/%s", id), nil, "")
}

func (c *Client) CreateCustomer(ctx context.Context, req dto.CustomerRequest) httpx.Response[dto.CustomerResponse] {
	return callJSON[dto.CustomerResponse](ctx, c, http.MethodPost, "api/customers", req)
}

func (c *Client) UpdateCustomer(ctx context.Context, id uint, req dto.CustomerRequest) httpx.Response[dto.CustomerResponse] {
	req.ID = id
	return callJSON[dto.CustomerResponse](ctx, c, http.MethodPut, idPath("api/customers/%s", id), req)
}

func (c *Client) DeleteCustomer(ctx context.Context, id uint) httpx.Response[bool] {
	return call[bool](ctx, c, http.MethodDelete, idPath("api/customers/%s", id), nil, "")
}
