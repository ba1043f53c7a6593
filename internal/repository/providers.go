package repository

import (
	"gorm.io/gorm"
)

type Repositories struct {
	Customer CustomerStore
	Image    ImageStore
}

func NewCustomerRepository(db *gorm.DB) CustomerStore {
	return &CustomerRepository{db: db}
}

func NewImageRepository(db *gorm.DB) ImageStore {
	return &ImageRepository{db: db}
}

func NewRepositories(customer CustomerStore, image ImageStore) *Repositories {
	return &Repositories{
		Customer: customer,
		Image:    image,
	}
}
