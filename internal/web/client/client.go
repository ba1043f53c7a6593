// Package client 是 API 的类型化 HTTP 客户端，供前端服务调用。
// 所有方法都返回响应包；网络或解析错误会被记录并转换为失败响应，不做重试。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"image-upload-server/internal/common/httpx"
	"image-upload-server/internal/logging"

	"go.uber.org/zap"
)

const maxResponseBytes = 32 * 1024 * 1024

// MsgUnavailable 网络错误只记录日志，页面只看到这条提示
const MsgUnavailable = "无法连接到服务，请稍后重试"

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("无效的 API 地址: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("无效的 API 地址: %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{baseURL: u, httpClient: &http.Client{Timeout: timeout}}, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")}).String()
}

func idPath(format string, id uint) string {
	return fmt.Sprintf(format, strconv.FormatUint(uint64(id), 10))
}

func jsonBody(v any) (io.Reader, string, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(buf), "application/json", nil
}

// call 发送请求并解析响应包。非 2xx 但响应体是合法响应包时原样返回。
func call[T any](ctx context.Context, c *Client, method, path string, body io.Reader, contentType string) httpx.Response[T] {
	target := c.endpoint(path)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		logging.Error("构建 API 请求失败", zap.String("url", target), zap.Error(err))
		return httpx.Failure[T]("请求失败")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Error("调用 API 失败", zap.String("method", method), zap.String("url", target), zap.Error(err))
		return httpx.Failure[T](MsgUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logging.Error("读取 API 响应失败", zap.String("url", target), zap.Error(err))
		return httpx.Failure[T]("读取响应失败")
	}

	var out httpx.Response[T]
	if err := json.Unmarshal(raw, &out); err != nil {
		logging.Error("解析 API 响应失败", zap.String("url", target), zap.Int("status", resp.StatusCode), zap.Error(err))
		return httpx.Failure[T](fmt.Sprintf("服务返回了无法识别的响应 (HTTP %d)", resp.StatusCode))
	}
	if out.Errors == nil {
		out.Errors = []string{}
	}
	if resp.StatusCode >= 400 && out.Success {
		out.Success = false
	}
	return out
}

func callJSON[T any](ctx context.Context, c *Client, method, path string, payload any) httpx.Response[T] {
	body, contentType, err := jsonBody(payload)
	if err != nil {
		logging.Error("序列化请求失败", zap.String("path", path), zap.Error(err))
		return httpx.Failure[T]("请求失败")
	}
	return call[T](ctx, c, method, path, body, contentType)
}
