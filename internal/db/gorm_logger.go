package db

import (
	"fmt"
	"strings"
	"time"

	"image-upload-server/internal/logging"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// zapWriter 把 gorm 日志转发到 zap，查不到记录属于正常分支，不记录
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	logging.Warn("gorm", zap.String("detail", msg))
}

// NewLogger gorm 只输出慢查询与错误
func NewLogger() logger.Interface {
	return logger.New(zapWriter{}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
