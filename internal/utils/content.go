package utils

import (
	"encoding/base64"
	"path/filepath"
	"strings"

	"image-upload-server/internal/consts"

	"github.com/gabriel-vasile/mimetype"
)

// NormalizeContentType 去除首尾空白并转小写
func NormalizeContentType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(contentType))
}

// CanonicalContentType 把 image/jpg 归一为 image/jpeg，其余原样返回
func CanonicalContentType(contentType string) string {
	ct := NormalizeContentType(contentType)
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}

// IsAllowedContentType 判断类型是否在白名单内（大小写不敏感的精确匹配）
func IsAllowedContentType(contentType string) bool {
	ct := NormalizeContentType(contentType)
	for _, allowed := range consts.AllowedImageContentTypes {
		if ct == allowed {
			return true
		}
	}
	return false
}

// StripDataURL 去掉 "data:<type>;base64," 前缀，返回纯 base64 文本和前缀中声明的类型
func StripDataURL(payload string) (string, string) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, "data:") {
		return payload, ""
	}
	comma := strings.IndexByte(payload, ',')
	if comma < 0 {
		return payload, ""
	}
	meta := payload[len("data:"):comma]
	declared := strings.TrimSuffix(meta, ";base64")
	return payload[comma+1:], NormalizeContentType(declared)
}

// CompactBase64 去掉换行、制表符和空格，兼容按 76 列折行的编码
func CompactBase64(encoded string) string {
	if !strings.ContainsAny(encoded, " \r\n\t") {
		return encoded
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\r', '\n', '\t':
			return -1
		}
		return r
	}, encoded)
}

// Base64DecodedLen 根据编码长度和填充计算解码后的精确字节数，无需真正解码
func Base64DecodedLen(encoded string) int64 {
	encoded = CompactBase64(encoded)
	n := int64(len(encoded))
	if n == 0 {
		return 0
	}
	if n%4 != 0 {
		return n * 6 / 8
	}
	padding := int64(0)
	if strings.HasSuffix(encoded, "==") {
		padding = 2
	} else if strings.HasSuffix(encoded, "=") {
		padding = 1
	}
	return n/4*3 - padding
}

// DecodeBase64 解码标准 base64，兼容未填充的写法
func DecodeBase64(encoded string) ([]byte, error) {
	encoded = CompactBase64(encoded)
	if len(encoded)%4 != 0 {
		return base64.RawStdEncoding.DecodeString(encoded)
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// SniffImageType 根据文件头识别真实类型，返回识别结果以及是否落在白名单内
func SniffImageType(data []byte) (string, bool) {
	detected := mimetype.Detect(data)
	for _, allowed := range consts.AllowedImageContentTypes {
		if detected.Is(CanonicalContentType(allowed)) {
			return detected.String(), true
		}
	}
	return detected.String(), false
}

// MatchesDeclaredType 文件头识别出的类型必须与声明的白名单类型一致（image/jpg 视同 image/jpeg）
func MatchesDeclaredType(data []byte, declared string) (string, bool) {
	detected := mimetype.Detect(data)
	return detected.String(), IsAllowedContentType(declared) && detected.Is(CanonicalContentType(declared))
}

// ImageExtension 优先使用原文件名的扩展名，缺失时按内容类型推断
func ImageExtension(fileName, contentType string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != "" {
		return ext
	}
	if m := mimetype.Lookup(CanonicalContentType(contentType)); m != nil {
		return m.Extension()
	}
	return ""
}
