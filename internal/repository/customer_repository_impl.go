package repository

import (
	"image-upload-server/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("uploaded_at ASC").Order("id ASC")
}

// List 返回全部客户（含图片），按姓、名排序
func (r *CustomerRepository) List() ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Preload("Images", orderedImages).
		Order("last_name ASC").Order("first_name ASC").Order("id ASC").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) FindByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) FindWithImages(id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.Preload("Images", orderedImages).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

// UpdateFields 按字段更新；找不到记录时返回 gorm.ErrRecordNotFound
func (r *CustomerRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	res := r.db.Model(&model.Customer{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除客户及其图片行，图片文件需由调用方先行清理
func (r *CustomerRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&model.Image{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Customer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
