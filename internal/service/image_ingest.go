package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"image-upload-server/internal/consts"
	"image-upload-server/internal/logging"
	"image-upload-server/internal/model"
	"image-upload-server/internal/utils"

	"go.uber.org/zap"
)

// UploadRequest 一张待入库图片的元数据
type UploadRequest struct {
	CustomerID  uint
	FileName    string
	ContentType string
	Description *string
}

// payload 屏蔽原始文件与 base64 文本两种输入的差异
type payload interface {
	empty() bool
	size() int64
	bytes() ([]byte, error)
}

type rawPayload struct {
	data []byte
}

func (p rawPayload) empty() bool            { return len(p.data) == 0 }
func (p rawPayload) size() int64            { return int64(len(p.data)) }
func (p rawPayload) bytes() ([]byte, error) { return p.data, nil }

type filePayload struct {
	header *multipart.FileHeader
}

func (p filePayload) empty() bool { return p.header == nil || p.header.Size <= 0 }
func (p filePayload) size() int64 { return p.header.Size }

func (p filePayload) bytes() ([]byte, error) {
	src, err := p.header.Open()
	if err != nil {
		return nil, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer func() { _ = src.Close() }()
	return io.ReadAll(src)
}

type base64Payload struct {
	encoded string
}

func (p base64Payload) empty() bool { return p.encoded == "" }
func (p base64Payload) size() int64 { return utils.Base64DecodedLen(p.encoded) }

func (p base64Payload) bytes() ([]byte, error) {
	data, err := utils.DecodeBase64(p.encoded)
	if err != nil {
		return nil, NewValidationError("图片数据格式错误，无法解码 base64")
	}
	return data, nil
}

// Upload 保存原始字节形式的图片
func (s *ImageService) Upload(req UploadRequest, data []byte) (*model.Image, error) {
	return s.ingest(req, rawPayload{data: data})
}

// UploadFile 保存 multipart 上传的单个文件，类型取自文件头部的 Content-Type
func (s *ImageService) UploadFile(customerID uint, file *multipart.FileHeader, description *string) (*model.Image, error) {
	req := UploadRequest{CustomerID: customerID, Description: description}
	if file != nil {
		req.FileName = file.Filename
		req.ContentType = file.Header.Get("Content-Type")
	}
	return s.ingest(req, filePayload{header: file})
}

// UploadBase64 保存 base64 编码的图片，允许带 data URL 前缀
func (s *ImageService) UploadBase64(req UploadRequest, encoded string) (*model.Image, error) {
	stripped, declared := utils.StripDataURL(encoded)
	if req.ContentType == "" {
		req.ContentType = declared
	}
	return s.ingest(req, base64Payload{encoded: stripped})
}

// ingest 按固定顺序校验，任一步失败立即返回对应原因：
// 客户存在、数量未达上限、内容非空、类型在白名单、大小未超限、可解码、文件头与类型相符。
func (s *ImageService) ingest(req UploadRequest, p payload) (*model.Image, error) {
	if err := s.ensureCustomer(req.CustomerID); err != nil {
		return nil, err
	}

	canAdd, err := s.CanAddImage(req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !canAdd {
		return nil, NewLimitReachedError(fmt.Sprintf("客户已达到图片数量上限（%d 张）", s.limits.MaxImages))
	}

	if p.empty() {
		return nil, NewValidationError("未提供图片内容")
	}

	if !utils.IsAllowedContentType(req.ContentType) {
		return nil, NewValidationError(fmt.Sprintf("不支持的图片类型: %s，仅支持 %s",
			req.ContentType, strings.Join(consts.AllowedImageContentTypes, ", ")))
	}

	if p.size() > s.limits.MaxBytes {
		return nil, NewValidationError(fmt.Sprintf("图片大小不能超过 %dMB", s.limits.MaxBytes/(1024*1024)))
	}

	data, err := p.bytes()
	if err != nil {
		if _, ok := AsServiceError(err); ok {
			return nil, err
		}
		logging.Error("读取上传内容失败", logging.CustomerID(req.CustomerID), logging.FileName(req.FileName), zap.Error(err))
		return nil, NewInternalError("读取上传内容失败")
	}
	// 声明大小与实际内容不一致时以实际内容为准
	if int64(len(data)) > s.limits.MaxBytes {
		return nil, NewValidationError(fmt.Sprintf("图片大小不能超过 %dMB", s.limits.MaxBytes/(1024*1024)))
	}
	if len(data) == 0 {
		return nil, NewValidationError("未提供图片内容")
	}

	if s.limits.VerifyContent {
		if detected, ok := utils.MatchesDeclaredType(data, req.ContentType); !ok {
			return nil, NewValidationError(fmt.Sprintf("图片内容与类型不符，识别结果为 %s", detected))
		}
	}

	if err := validateMetadata(req); err != nil {
		return nil, err
	}

	return s.persist(req, data)
}

func validateMetadata(req UploadRequest) error {
	name := strings.TrimSpace(req.FileName)
	if name == "" {
		return NewValidationError("文件名不能为空")
	}
	if utf8.RuneCountInString(name) > consts.MaxFileNameLength {
		return NewValidationError(fmt.Sprintf("文件名长度不能超过 %d 个字符", consts.MaxFileNameLength))
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > consts.MaxDescriptionLength {
		return NewValidationError(fmt.Sprintf("描述长度不能超过 %d 个字符", consts.MaxDescriptionLength))
	}
	return nil
}

// persist 先落地内容再写数据库；写库失败时回收已写入的文件
func (s *ImageService) persist(req UploadRequest, data []byte) (*model.Image, error) {
	fileName := strings.TrimSpace(req.FileName)
	stored, err := s.backend.Store(req.CustomerID, fileName, req.ContentType, data)
	if err != nil {
		logging.Error("保存图片内容失败", logging.CustomerID(req.CustomerID), logging.FileName(fileName), zap.Error(err))
		return nil, NewInternalError("保存图片失败")
	}

	image := &model.Image{
		CustomerID:    req.CustomerID,
		FileName:      fileName,
		ContentType:   utils.NormalizeContentType(req.ContentType),
		FileSizeBytes: int64(len(data)),
		UploadedAt:    time.Now().UTC(),
		Description:   normalizeOptional(req.Description),
	}
	stored.Apply(image)

	if err := s.imageStore.Create(image); err != nil {
		if rmErr := s.backend.Remove(image); rmErr != nil {
			logging.Warn("回收孤立文件失败", logging.CustomerID(req.CustomerID), zap.Error(rmErr))
		}
		logging.Error("写入图片记录失败", logging.CustomerID(req.CustomerID), logging.FileName(fileName), zap.Error(err))
		return nil, NewInternalError("保存图片失败")
	}

	logging.Info("图片上传成功",
		logging.CustomerID(req.CustomerID),
		logging.ImageID(image.ID),
		zap.String("storage", s.backend.Kind()),
		zap.Int64("size", image.FileSizeBytes),
	)
	return image, nil
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
