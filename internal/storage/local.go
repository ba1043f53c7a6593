package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"image-upload-server/internal/config"
	"image-upload-server/internal/model"
	"image-upload-server/internal/utils"

	"github.com/google/uuid"
)

// LocalBackend 把图片写到 <root>/<customerID>/<uuid><ext>，行上只保存相对路径
type LocalBackend struct {
	root string
}

func NewLocalBackend(root string) *LocalBackend {
	return &LocalBackend{root: root}
}

func (b *LocalBackend) Kind() string { return config.StorageFilesystem }

func (b *LocalBackend) Root() string { return b.root }

func (b *LocalBackend) Store(customerID uint, fileName, contentType string, data []byte) (Payload, error) {
	if err := os.MkdirAll(b.root, 0755); err != nil {
		return Payload{}, fmt.Errorf("创建存储目录失败: %w", err)
	}
	if err := utils.EnsurePathNotSymlink(b.root); err != nil {
		return Payload{}, err
	}

	stem := uuid.New().String() + utils.ImageExtension(fileName, contentType)
	target, err := utils.CustomerFilePath(b.root, customerID, stem)
	if err != nil {
		return Payload{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return Payload{}, fmt.Errorf("创建客户目录失败: %w", err)
	}
	// 建目录后再校验一次，防止并发替换为符号链接
	if err := utils.EnsureNoSymlinkBetween(b.root, filepath.Dir(target)); err != nil {
		return Payload{}, err
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return Payload{}, fmt.Errorf("创建文件失败: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return Payload{}, fmt.Errorf("写入文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return Payload{}, fmt.Errorf("写入文件失败: %w", err)
	}

	rel := filepath.ToSlash(filepath.Join(fmt.Sprintf("%d", customerID), stem))
	return Payload{FilePath: &rel}, nil
}

func (b *LocalBackend) Load(image *model.Image) ([]byte, error) {
	return loadImage(b.root, image)
}

func (b *LocalBackend) Remove(image *model.Image) error {
	return removeImage(b.root, image)
}
