package config

import (
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/viper"
)

// 用于管理应用配置

var (
	// 使用 atomic.Value 存储 *Config，实现无锁读取
	appConfig atomic.Value
	configMu  sync.Mutex // 仅用于写操作互斥
	configDir = "config"
)

const (
	// StorageInline 图片以 base64 文本形式保存在数据库行中
	StorageInline = "inline"
	// StorageFilesystem 图片写入磁盘，数据库只保存路径（旧方案）
	StorageFilesystem = "filesystem"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Web       WebConfig       `mapstructure:"web"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Type     string `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename string `mapstructure:"filename"` // for sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"` // database name
	SSL      bool   `mapstructure:"ssl"`  // enable TLS/SSL
}

type UploadConfig struct {
	Storage       string `mapstructure:"storage"` // inline, filesystem
	Path          string `mapstructure:"path"`
	URLPrefix     string `mapstructure:"url_prefix"`
	MaxSizeMB     int    `mapstructure:"max_size_mb"`
	MaxRequestMB  int    `mapstructure:"max_request_mb"`
	MaxImages     int    `mapstructure:"max_images"`
	VerifyContent bool   `mapstructure:"verify_content"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type RateLimitConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	UploadRPS   float64 `mapstructure:"upload_rps"`
	UploadBurst int     `mapstructure:"upload_burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Debug bool   `mapstructure:"debug"`
}

type WebConfig struct {
	Port           string `mapstructure:"port"`
	APIBaseURL     string `mapstructure:"api_base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// MaxUploadBytes 单张图片允许的最大字节数
func (c UploadConfig) MaxUploadBytes() int64 {
	if c.MaxSizeMB <= 0 {
		return 5 * 1024 * 1024
	}
	return int64(c.MaxSizeMB) * 1024 * 1024
}

// Get 获取当前配置的快照（高性能无锁）
func Get() Config {
	val := appConfig.Load()
	if val == nil {
		return Config{}
	}
	c, ok := val.(*Config)
	if !ok {
		return Config{}
	}
	return *c
}

// Set 直接替换当前配置，主要供测试使用
func Set(c Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig.Store(&c)
}

func GetConfigDir() string {
	return configDir
}

func InitConfig(customConfigDir string) {
	v := initViper(customConfigDir)
	loadAndStore(v)
	log.Println("✅ 配置加载成功")
}

func initViper(customConfigDir string) *viper.Viper {
	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}
	configDir = customConfigDir

	// 设置配置文件路径
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 设置默认值
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/image_upload.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "root")
	v.SetDefault("database.name", "image_upload")
	v.SetDefault("database.ssl", false)
	v.SetDefault("upload.storage", StorageInline)
	v.SetDefault("upload.path", "uploads/images")
	v.SetDefault("upload.url_prefix", "/api/images/serve/")
	v.SetDefault("upload.max_size_mb", 5)
	v.SetDefault("upload.max_request_mb", 64)
	v.SetDefault("upload.max_images", 10)
	v.SetDefault("upload.verify_content", true)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "image_upload")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.upload_rps", 2)
	v.SetDefault("rate_limit.upload_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.debug", true)
	v.SetDefault("web.port", "8081")
	v.SetDefault("web.api_base_url", "http://127.0.0.1:8080/")
	v.SetDefault("web.timeout_seconds", 30)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			log.Println("⚠️  未找到配置文件，将仅使用环境变量或默认值")
		} else {
			log.Fatalf("❌ 读取配置文件失败: %v", err)
		}
	}

	// 配置环境变量覆盖
	// 规则：所有环境变量必须以 IMAGE_UPLOAD_ 开头
	// 例如：yaml 中的 upload.storage 对应环境变量 IMAGE_UPLOAD_UPLOAD_STORAGE
	v.SetEnvPrefix("IMAGE_UPLOAD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

// loadAndStore 解析并原子更新配置
func loadAndStore(v *viper.Viper) {
	// 加写锁，防止并发重载时的竞争
	configMu.Lock()
	defer configMu.Unlock()

	var tempConfig Config
	if err := v.Unmarshal(&tempConfig); err != nil {
		log.Printf("❌ 配置解析失败: %v", err)
		return
	}

	switch tempConfig.Upload.Storage {
	case StorageInline, StorageFilesystem:
	default:
		log.Printf("⚠️ 未知的存储方式 %q，已回退为 %s", tempConfig.Upload.Storage, StorageInline)
		tempConfig.Upload.Storage = StorageInline
	}
	if tempConfig.Upload.MaxImages <= 0 {
		tempConfig.Upload.MaxImages = 10
	}

	// 原子替换全局配置
	appConfig.Store(&tempConfig)
	log.Println("✅ 配置已更新")
}
