package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/consts"
	"image-upload-server/internal/dto"
	"image-upload-server/internal/logging"
	apiservice "image-upload-server/internal/service"
	"image-upload-server/internal/utils"

	"go.uber.org/zap"
)

const defaultMaxUploadBytes = 5 * 1024 * 1024

type ImageService struct {
	api      API
	maxBytes int64
}

func NewImageService(api API, maxBytes int64) *ImageService {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &ImageService{api: api, maxBytes: maxBytes}
}

// PreparedUpload 通过预检并已转换为 base64 的文件
type PreparedUpload struct {
	FileName    string
	ContentType string
	Base64Data  string
}

// PrepareUpload 本地检查类型与大小，通过后读取文件并编码为 base64
func (s *ImageService) PrepareUpload(fh *multipart.FileHeader) (*PreparedUpload, error) {
	if fh == nil {
		return nil, fmt.Errorf("请选择要上传的文件")
	}
	contentType := utils.NormalizeContentType(fh.Header.Get("Content-Type"))
	if !utils.IsAllowedContentType(contentType) {
		return nil, fmt.Errorf("%s: 不支持的图片类型，仅允许 %s", fh.Filename, strings.Join(consts.AllowedImageContentTypes, ", "))
	}
	if fh.Size <= 0 {
		return nil, fmt.Errorf("%s: 文件为空", fh.Filename)
	}
	if fh.Size > s.maxBytes {
		return nil, fmt.Errorf("%s: 文件大小不能超过 %dMB", fh.Filename, s.maxBytes/1024/1024)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: 读取文件失败", fh.Filename)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s: 读取文件失败", fh.Filename)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%s: 文件大小不能超过 %dMB", fh.Filename, s.maxBytes/1024/1024)
	}

	return &PreparedUpload{
		FileName:    fh.Filename,
		ContentType: contentType,
		Base64Data:  base64.StdEncoding.EncodeToString(data),
	}, nil
}

// UploadResult 一次页面上传的汇总
type UploadResult struct {
	Uploaded int
	Errors   []string
}

// Upload 逐个预检并通过 base64 接口上传，单个失败不影响其余文件
func (s *ImageService) Upload(ctx context.Context, customerID uint, files []*multipart.FileHeader, description string) UploadResult {
	result := UploadResult{Errors: []string{}}
	if len(files) == 0 {
		result.Errors = append(result.Errors, "请选择要上传的文件")
		return result
	}
	if len(files) > consts.MaxBatchUploadFiles {
		result.Errors = append(result.Errors, fmt.Sprintf("单次最多上传 %d 个文件", consts.MaxBatchUploadFiles))
		return result
	}

	var desc *string
	if d := strings.TrimSpace(description); d != "" {
		desc = &d
	}

	for _, fh := range files {
		prepared, err := s.PrepareUpload(fh)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		resp := s.api.UploadBase64(ctx, dto.Base64UploadRequest{
			CustomerID:  customerID,
			FileName:    prepared.FileName,
			ContentType: prepared.ContentType,
			Base64Data:  prepared.Base64Data,
			Description: desc,
		})
		if resp.Success {
			result.Uploaded++
			continue
		}
		logging.Warn("图片上传失败", logging.CustomerID(customerID), logging.FileName(fh.Filename), zap.String("message", resp.Message))
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", fh.Filename, failureMessage(resp)))
	}
	return result
}

func (s *ImageService) List(ctx context.Context, customerID uint) httpx.Response[[]dto.ImageResponse] {
	return s.api.ListCustomerImages(ctx, customerID)
}

func (s *ImageService) Delete(ctx context.Context, id uint) httpx.Response[bool] {
	return s.api.DeleteImage(ctx, id)
}

func (s *ImageService) Count(ctx context.Context, customerID uint) httpx.Response[apiservice.ImageCount] {
	return s.api.GetImageCount(ctx, customerID)
}

// Content 取回图片的原始内容
func (s *ImageService) Content(ctx context.Context, id uint) ([]byte, string, error) {
	resp := s.api.GetImageBase64(ctx, id)
	if !resp.Success || resp.Data == nil {
		return nil, "", errors.New(failureMessage(resp))
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data.Base64Data)
	if err != nil {
		return nil, "", fmt.Errorf("图片数据损坏: %w", err)
	}
	return data, resp.Data.ContentType, nil
}

// ImageSrc 行内图片直接拼接 data URL，磁盘图片经由前端转发地址读取
func ImageSrc(image dto.ImageResponse) string {
	if image.Base64Data != nil && *image.Base64Data != "" {
		return "data:" + image.ContentType + ";base64," + *image.Base64Data
	}
	return "/images/" + strconv.FormatUint(uint64(image.ID), 10) + "/raw"
}

func failureMessage[T any](resp httpx.Response[T]) string {
	if len(resp.Errors) > 0 {
		return strings.Join(resp.Errors, "; ")
	}
	if resp.Message != "" {
		return resp.Message
	}
	return "上传失败"
}
