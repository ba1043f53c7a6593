// Package storage 负责图片二进制内容的落地，支持两种互斥编码：
// 行内 base64（当前方案）和磁盘文件路径（旧方案）。
package storage

import (
	"errors"
	"fmt"
	"os"

	"image-upload-server/internal/config"
	"image-upload-server/internal/model"
	"image-upload-server/internal/utils"
)

// ErrNoPayload 图片行既没有路径也没有 base64 内容
var ErrNoPayload = errors.New("图片内容缺失")

// Payload 是写入成功后需要落到图片行上的内容引用，两个字段只会设置一个
type Payload struct {
	FilePath   *string
	Base64Data *string
}

// Apply 把引用写到图片行上
func (p Payload) Apply(image *model.Image) {
	image.FilePath = p.FilePath
	image.Base64Data = p.Base64Data
}

type Backend interface {
	// Kind 返回 config.StorageInline 或 config.StorageFilesystem
	Kind() string
	// contentType 用于文件名缺少扩展名时推断扩展名
	Store(customerID uint, fileName, contentType string, data []byte) (Payload, error)
	// Load 读取任意编码的图片内容，与当前后端类型无关
	Load(image *model.Image) ([]byte, error)
	// Remove 清理行外内容；文件已不存在视为成功
	Remove(image *model.Image) error
}

// New 按配置选择后端，root 同时用于读取旧的磁盘图片
func New(kind, root string) (Backend, error) {
	switch kind {
	case config.StorageFilesystem:
		return NewLocalBackend(root), nil
	case config.StorageInline, "":
		return NewInlineBackend(root), nil
	default:
		return nil, fmt.Errorf("未知的存储类型: %s", kind)
	}
}

func loadImage(root string, image *model.Image) ([]byte, error) {
	switch {
	case image.IsInline():
		return utils.DecodeBase64(*image.Base64Data)
	case image.IsFilesystem():
		path, err := utils.SecureJoin(root, *image.FilePath)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(path)
	default:
		return nil, ErrNoPayload
	}
}

func removeImage(root string, image *model.Image) error {
	if !image.IsFilesystem() {
		return nil
	}
	path, err := utils.SecureJoin(root, *image.FilePath)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
