package repository

import "image-upload-server/internal/model"

type ImageStore interface {
	Create(image *model.Image) error
	FindByID(id uint) (*model.Image, error)
	ListByCustomerID(customerID uint) ([]model.Image, error)
	CountByCustomerID(customerID uint) (int64, error)
	Delete(image *model.Image) error
}
