package repository

import "image-upload-server/internal/model"

type CustomerStore interface {
	List() ([]model.Customer, error)
	FindByID(id uint) (*model.Customer, error)
	FindWithImages(id uint) (*model.Customer, error)
	Create(customer *model.Customer) error
	UpdateFields(id uint, updates map[string]interface{}) error
	Delete(id uint) error
}
