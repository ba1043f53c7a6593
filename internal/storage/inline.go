package storage

import (
	"encoding/base64"

	"image-upload-server/internal/config"
	"image-upload-server/internal/model"
)

type InlineBackend struct {
	legacyRoot string
}

func NewInlineBackend(legacyRoot string) *InlineBackend {
	return &InlineBackend{legacyRoot: legacyRoot}
}

func (b *InlineBackend) Kind() string { return config.StorageInline }

func (b *InlineBackend) Store(_ uint, _, _ string, data []byte) (Payload, error) {
	encoded := base64.StdEncoding.EncodeToString(data)
	return Payload{Base64Data: &encoded}, nil
}

func (b *InlineBackend) Load(image *model.Image) ([]byte, error) {
	return loadImage(b.legacyRoot, image)
}

func (b *InlineBackend) Remove(image *model.Image) error {
	return removeImage(b.legacyRoot, image)
}
