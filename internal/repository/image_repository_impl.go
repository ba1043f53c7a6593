package repository

import (
	"image-upload-server/internal/model"

	"gorm.io/gorm"
)

type ImageRepository struct {
	db *gorm.DB
}

func (r *ImageRepository) Create(image *model.Image) error {
	return r.db.Create(image).Error
}

// FindByID 查询单张图片并带出所属客户
func (r *ImageRepository) FindByID(id uint) (*model.Image, error) {
	var image model.Image
	if err := r.db.Preload("Customer").First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *ImageRepository) ListByCustomerID(customerID uint) ([]model.Image, error) {
	var images []model.Image
	err := r.db.Where("customer_id = ?", customerID).
		Order("uploaded_at ASC").Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// CountByCustomerID 实时统计，不走缓存计数
func (r *ImageRepository) CountByCustomerID(customerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Image{}).Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

// Delete 删除图片行；行已不存在时返回 gorm.ErrRecordNotFound
func (r *ImageRepository) Delete(image *model.Image) error {
	res := r.db.Delete(&model.Image{}, image.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
