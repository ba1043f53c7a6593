package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"image-upload-server/internal/config"
	"image-upload-server/internal/logging"
	"image-upload-server/internal/model"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// SQLitePragmas 启用外键（级联删除依赖它）、WAL 和繁忙等待
const SQLitePragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// InitDB 按全局配置打开数据库并同步表结构，失败直接退出进程
func InitDB() {
	gdb, err := Open(config.Get().Database)
	if err != nil {
		logging.Fatal("数据库初始化失败", zap.Error(err))
	}
	DB = gdb
}

// Open 打开数据库连接、配置连接池并执行迁移
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{NowFunc: NowUTC, Logger: NewLogger()})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	// 获取底层 sql.DB 以配置连接池
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取 sql.DB: %w", err)
	}

	if isSQLite(cfg.Type) {
		// SQLite 建议单连接写
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetMaxIdleConns(10)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(gdb); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	logging.Info("数据库连接成功，表结构已同步", zap.String("type", dbType(cfg.Type)))
	return gdb, nil
}

// Migrate 同步客户与图片表结构
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.Customer{},
		&model.Image{},
	)
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
		)
		if cfg.SSL {
			dsn += "&tls=true"
		}
		return mysql.Open(dsn), nil
	case "postgres":
		sslMode := "disable"
		if cfg.SSL {
			sslMode = "require"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.Port,
			sslMode,
		)
		return postgres.Open(dsn), nil
	default:
		filename := cfg.Filename
		if filename == "" {
			filename = "database/image_upload.db"
		}
		// 自动创建数据库目录
		dbDir := filepath.Dir(filename)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("无法创建数据库目录 '%s': %w", dbDir, err)
		}
		return sqlite.Open(filename + "?" + SQLitePragmas), nil
	}
}

func isSQLite(t string) bool {
	return t != "mysql" && t != "postgres"
}

func dbType(t string) string {
	if isSQLite(t) {
		return "sqlite"
	}
	return t
}

// NowUTC 让 gorm 自动填充的时间戳统一使用 UTC
func NowUTC() time.Time {
	return time.Now().UTC()
}
