package dto

import "image-upload-server/internal/model"

// CustomerRequest 创建与更新共用；更新时 ID 可省略，填写则必须与路径一致
type CustomerRequest struct {
	ID        uint    `json:"id"`
	FirstName string  `json:"firstName" binding:"required,max=100"`
	LastName  string  `json:"lastName" binding:"required,max=100"`
	Email     *string `json:"email" binding:"omitempty,max=200,email"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
}

type CustomerResponse struct {
	model.Customer
	Images []ImageResponse `json:"images"`
}
