package main

import (
	"fmt"
	"os"

	"image-upload-server/internal/config"
	"image-upload-server/internal/consts"
	"image-upload-server/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "image-upload-server",
	Short: "客户图片管理：JSON API 与网页前端",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.InitConfig(configDir)
		cfg := config.Get()
		if err := logging.Initialize(cfg.Log.Level, cfg.Log.Debug); err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "config", "配置文件所在目录")
	rootCmd.Version = consts.ApplicationVersion
	rootCmd.AddCommand(apiCmd, webCmd, routesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error("命令执行失败", zap.Error(err))
		os.Exit(1)
	}
}
