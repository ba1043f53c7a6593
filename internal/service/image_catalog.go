package service

import (
	"encoding/base64"
	"errors"
	"io/fs"

	"image-upload-server/internal/logging"
	"image-upload-server/internal/model"
	"image-upload-server/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Base64Image 前端预览用的图片内容
type Base64Image struct {
	ID          uint   `json:"id"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Base64Data  string `json:"base64Data"`
}

// ListCustomerImages 按上传时间升序返回客户的全部图片
func (s *ImageService) ListCustomerImages(customerID uint) ([]model.Image, error) {
	images, err := s.imageStore.ListByCustomerID(customerID)
	if err != nil {
		logging.Error("查询客户图片失败", logging.CustomerID(customerID), zap.Error(err))
		return nil, NewInternalError("查询图片失败")
	}
	return images, nil
}

// GetImage 查询单张图片（含所属客户）
func (s *ImageService) GetImage(id uint) (*model.Image, error) {
	image, err := s.imageStore.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("图片不存在")
		}
		logging.Error("查询图片失败", logging.ImageID(id), zap.Error(err))
		return nil, NewInternalError("查询图片失败")
	}
	return image, nil
}

// DeleteImage 先删磁盘文件（不存在不算错），再删记录。
// 返回 false, nil 表示图片不存在。
func (s *ImageService) DeleteImage(id uint) (bool, error) {
	image, err := s.imageStore.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		logging.Error("查询图片失败", logging.ImageID(id), zap.Error(err))
		return false, NewInternalError("删除图片失败")
	}

	if err := s.backend.Remove(image); err != nil {
		logging.Error("删除图片文件失败", logging.ImageID(id), logging.CustomerID(image.CustomerID), zap.Error(err))
		return false, NewInternalError("删除图片失败")
	}

	if err := s.imageStore.Delete(image); err != nil {
		// 并发删除时行可能已被移除
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		logging.Error("删除图片记录失败", logging.ImageID(id), zap.Error(err))
		return false, NewInternalError("删除图片失败")
	}

	logging.Info("图片已删除", logging.ImageID(id), logging.CustomerID(image.CustomerID))
	return true, nil
}

// LoadContent 读取图片二进制内容，两种编码都支持
func (s *ImageService) LoadContent(id uint) (*model.Image, []byte, error) {
	image, err := s.GetImage(id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.backend.Load(image)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, NewNotFoundError("图片文件不存在")
		}
		logging.Error("读取图片内容失败", logging.ImageID(id), zap.Error(err))
		return nil, nil, NewInternalError("读取图片失败")
	}
	return image, data, nil
}

// GetBase64 以 base64 形式返回图片内容，磁盘图片会被读取后编码
func (s *ImageService) GetBase64(id uint) (*Base64Image, error) {
	image, err := s.GetImage(id)
	if err != nil {
		return nil, err
	}

	encoded := ""
	if image.IsInline() {
		encoded = *image.Base64Data
	} else {
		_, data, err := s.LoadContent(id)
		if err != nil {
			return nil, err
		}
		encoded = base64.StdEncoding.EncodeToString(data)
	}

	return &Base64Image{
		ID:          image.ID,
		FileName:    image.FileName,
		ContentType: utils.NormalizeContentType(image.ContentType),
		Base64Data:  encoded,
	}, nil
}
