package service

import (
	"errors"

	"image-upload-server/internal/logging"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImageCount 客户图片数量与剩余额度
type ImageCount struct {
	CustomerID     uint  `json:"customerId"`
	CurrentCount   int64 `json:"currentCount"`
	MaxAllowed     int   `json:"maxAllowed"`
	CanAddMore     bool  `json:"canAddMore"`
	RemainingSlots int64 `json:"remainingSlots"`
}

// CountImages 实时查询客户的图片数量
func (s *ImageService) CountImages(customerID uint) (int64, error) {
	count, err := s.imageStore.CountByCustomerID(customerID)
	if err != nil {
		logging.Error("统计客户图片失败", logging.CustomerID(customerID), zap.Error(err))
		return 0, NewInternalError("统计图片数量失败")
	}
	return count, nil
}

// CanAddImage 数量严格小于上限时才允许再添加一张。
// 检查与写入之间没有加锁，并发上传时结果只作参考。
func (s *ImageService) CanAddImage(customerID uint) (bool, error) {
	count, err := s.CountImages(customerID)
	if err != nil {
		return false, err
	}
	return count < int64(s.limits.MaxImages), nil
}

func (s *ImageService) GetImageCount(customerID uint) (*ImageCount, error) {
	count, err := s.CountImages(customerID)
	if err != nil {
		return nil, err
	}
	remaining := int64(s.limits.MaxImages) - count
	if remaining < 0 {
		remaining = 0
	}
	return &ImageCount{
		CustomerID:     customerID,
		CurrentCount:   count,
		MaxAllowed:     s.limits.MaxImages,
		CanAddMore:     count < int64(s.limits.MaxImages),
		RemainingSlots: remaining,
	}, nil
}

func (s *ImageService) MaxImages() int {
	return s.limits.MaxImages
}

func (s *ImageService) ensureCustomer(customerID uint) error {
	if _, err := s.customerStore.FindByID(customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("客户不存在")
		}
		logging.Error("查询客户失败", logging.CustomerID(customerID), zap.Error(err))
		return NewInternalError("查询客户失败")
	}
	return nil
}
