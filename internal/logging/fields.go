package logging

import "go.uber.org/zap"

// 常用字段
func CustomerID(id uint) zap.Field { return zap.Uint("customer_id", id) }

func ImageID(id uint) zap.Field { return zap.Uint("image_id", id) }

func FileName(name string) zap.Field { return zap.String("file_name", name) }

var (
	SourceAPI = zap.String("source", "api")
	SourceWeb = zap.String("source", "web")
)
