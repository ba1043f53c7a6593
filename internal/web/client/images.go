package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/dto"
	"image-upload-server/internal/logging"
	"image-upload-server/internal/service"

	"go.uber.org/zap"
)

// File 批量上传中的一个文件
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (c *Client) UploadImages(ctx context.Context, customerID uint, files []File, description string) httpx.Response[[]dto.ImageResponse] {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(f.Name)))
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		if err == nil {
			_, err = part.Write(f.Data)
		}
		if err != nil {
			logging.Error("构建上传请求失败", logging.FileName(f.Name), zap.Error(err))
			return httpx.Failure[[]dto.ImageResponse]("上传失败")
		}
	}
	if description != "" {
		_ = w.WriteField("description", description)
	}
	if err := w.Close(); err != nil {
		return httpx.Failure[[]dto.ImageResponse]("上传失败")
	}

	return call[[]dto.ImageResponse](ctx, c, http.MethodPost, idPath("api/images/upload/%s", customerID), &body, w.FormDataContentType())
}

func (c *Client) UploadBase64(ctx context.Context, req dto.Base64UploadRequest) httpx.Response[dto.ImageResponse] {
	return callJSON[dto.ImageResponse](ctx, c, http.MethodPost, "api/images/upload-base64", req)
}

func (c *Client) ListCustomerImages(ctx context.Context, customerID uint) httpx.Response[[]dto.ImageResponse] {
	return call[[]dto.ImageResponse](ctx, c, http.MethodGet, idPath("api/images/customer/%s", customerID), nil, "")
}

func (c *Client) GetImage(ctx context.Context, id uint) httpx.Response[dto.ImageResponse] {
	return call[dto.ImageResponse](ctx, c, http.MethodGet, idPath("api/images/%s", id), nil, "")
}

func (c *Client) DeleteImage(ctx context.Context, id uint) httpx.Response[bool] {
	return call[bool](ctx, c, http.MethodDelete, idPath("api/images/%s", id), nil, "")
}

func (c *Client) GetImageCount(ctx context.Context, customerID uint) httpx.Response[service.ImageCount] {
	return call[service.ImageCount](ctx, c, http.MethodGet, idPath("api/images/count/%s", customerID), nil, "")
}

func (c *Client) GetImageBase64(ctx context.Context, id uint) httpx.Response[service.Base64Image] {
	return call[service.Base64Image](ctx, c, http.MethodGet, idPath("api/images/base64/%s", id), nil, "")
}
