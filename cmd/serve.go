package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"maskkit/handler"
	"maskkit/middleware"
	"maskkit/service"
	"maskkit/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动掩码校验 HTTP 服务",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	utils.Logger.Info("starting maskkit server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch))

	// 确保上传目录存在
	if err := os.MkdirAll(cfg.Upload.UploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	// 初始化Redis
	cache := service.NewReportCache(&cfg.Redis)
	ctx := context.Background()
	if err := cache.Ping(ctx); err != nil {
		utils.Logger.Warn("redis connection failed, cache disabled", zap.Error(err))
		cache.Disable()
	} else {
		utils.Logger.Info("redis connected successfully")
	}
	defer cache.Close()

	// 初始化服务和Handler
	verifier := service.NewVerifier(cfg.Verify.ChunkSize, cfg.Verify.SampleLimit)
	verifyHandler := handler.NewVerifyHandler(cfg, cache, verifier)
	overlayHandler := handler.NewOverlayHandler(cfg, service.NewColorizer())

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	// 创建路由
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// 健康检查和版本信息
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": Version,
		})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
			"git_branch": GitBranch,
		})
	})

	// API路由
	api := r.Group("/api/v1")
	{
		api.POST("/verify", verifyHandler.Verify)
		api.GET("/verify/:md5", verifyHandler.Report)
		api.POST("/overlay", overlayHandler.Overlay)
	}

	// 启动服务器
	utils.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := r.Run(cfg.Server.Port); err != nil {
		utils.Logger.Fatal("failed to start server", zap.Error(err))
	}
	return nil
}
