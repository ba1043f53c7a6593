package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"image-upload-server/internal/logging"
	"image-upload-server/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CustomerInput 创建或更新客户时可写的字段
type CustomerInput struct {
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
}

func (s *CustomerService) List() ([]model.Customer, error) {
	customers, err := s.customerStore.List()
	if err != nil {
		logging.Error("查询客户列表失败", zap.Error(err))
		return nil, NewInternalError("查询客户列表失败")
	}
	return customers, nil
}

// Get 查询单个客户（含图片）
func (s *CustomerService) Get(id uint) (*model.Customer, error) {
	customer, err := s.customerStore.FindWithImages(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("客户不存在")
		}
		logging.Error("查询客户失败", logging.CustomerID(id), zap.Error(err))
		return nil, NewInternalError("查询客户失败")
	}
	return customer, nil
}

func (s *CustomerService) Create(input CustomerInput) (*model.Customer, error) {
	input, err := normalizeCustomerInput(input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := &model.Customer{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: now,
		UpdatedAt: now,
		Images:    []model.Image{},
	}
	if err := s.customerStore.Create(customer); err != nil {
		logging.Error("创建客户失败", zap.Error(err))
		return nil, NewInternalError("创建客户失败")
	}

	logging.Info("客户已创建", logging.CustomerID(customer.ID))
	return customer, nil
}

// Update 全量更新姓名、邮箱和电话；bodyID 非零时必须与路径中的 id 一致
func (s *CustomerService) Update(id uint, bodyID uint, input CustomerInput) (*model.Customer, error) {
	if bodyID != 0 && bodyID != id {
		return nil, NewValidationError("客户 ID 不匹配")
	}
	input, err := normalizeCustomerInput(input)
	if err != nil {
		return nil, err
	}

	err = s.customerStore.UpdateFields(id, map[string]interface{}{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
		"email":      input.Email,
		"phone":      input.Phone,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("客户不存在")
		}
		logging.Error("更新客户失败", logging.CustomerID(id), zap.Error(err))
		return nil, NewInternalError("更新客户失败")
	}

	return s.Get(id)
}

// Delete 先逐个删除图片文件，再删除客户与图片记录。
// 中途删除文件失败会直接返回，已删除的文件不会恢复。
func (s *CustomerService) Delete(id uint) error {
	customer, err := s.customerStore.FindWithImages(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("客户不存在")
		}
		logging.Error("查询客户失败", logging.CustomerID(id), zap.Error(err))
		return NewInternalError("删除客户失败")
	}

	for i := range customer.Images {
		image := &customer.Images[i]
		if err := s.backend.Remove(image); err != nil {
			logging.Error("删除客户图片文件失败",
				logging.CustomerID(id), logging.ImageID(image.ID), zap.Error(err))
			return NewInternalError("删除客户失败")
		}
	}

	if err := s.customerStore.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("客户不存在")
		}
		logging.Error("删除客户失败", logging.CustomerID(id), zap.Error(err))
		return NewInternalError("删除客户失败")
	}

	logging.Info("客户已删除", logging.CustomerID(id), zap.Int("images", len(customer.Images)))
	return nil
}

func normalizeCustomerInput(input CustomerInput) (CustomerInput, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = normalizeOptional(input.Email)
	input.Phone = normalizeOptional(input.Phone)

	if input.FirstName == "" {
		return input, NewValidationError("名不能为空")
	}
	if input.LastName == "" {
		return input, NewValidationError("姓不能为空")
	}
	if err := checkLength("名", input.FirstName, 100); err != nil {
		return input, err
	}
	if err := checkLength("姓", input.LastName, 100); err != nil {
		return input, err
	}
	if input.Email != nil {
		if err := checkLength("邮箱", *input.Email, 200); err != nil {
			return input, err
		}
	}
	if input.Phone != nil {
		if err := checkLength("电话", *input.Phone, 20); err != nil {
			return input, err
		}
	}
	return input, nil
}

func checkLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return NewValidationError(fmt.Sprintf("%s长度不能超过 %d 个字符", field, max))
	}
	return nil
}
