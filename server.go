package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"image-upload-server/internal/config"
	"image-upload-server/internal/consts"
	"image-upload-server/internal/db"
	"image-upload-server/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// serve 启动 HTTP 服务，收到 SIGINT/SIGTERM 后在超时时间内优雅关闭
func serve(addr string, handler http.Handler, source zap.Field) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("服务启动成功", source, zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("服务启动失败: %w", err)
		}
		return nil
	case <-quit:
	}

	logging.Info("正在关闭服务...", source)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务强制关闭: %w", err)
	}
	logging.Info("服务已退出", source)
	return nil
}

func printWelcomeMessage(role, port string) {
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🚀  %s (%s)\n", consts.ApplicationName, role)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  版本     : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   🔥  服务端口 : %s\n", port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

var routesOutput string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "导出 API 路由到 JSON 文件",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		db.InitDB()
		r, redisClient, err := buildAPIEngine(cfg, db.DB)
		if err != nil {
			return err
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		if err := exportAPI(r, routesOutput); err != nil {
			return err
		}
		fmt.Printf("✅ 路由已成功导出到 %s\n", routesOutput)
		return nil
	},
}

func init() {
	routesCmd.Flags().StringVarP(&routesOutput, "output", "o", "routes.json", "输出文件路径")
}

// RouteInfo 只保留路由的关键信息
type RouteInfo struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Handler string `json:"handler"`
}

func exportAPI(r *gin.Engine, output string) error {
	routes := r.Routes()
	exportList := make([]RouteInfo, 0, len(routes))
	for _, route := range routes {
		exportList = append(exportList, RouteInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	file, err := json.MarshalIndent(exportList, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(output, file, 0o644)
}
