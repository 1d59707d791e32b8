package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"snapptale/internal/ai"
	"snapptale/internal/config"
	"snapptale/internal/export"
	"snapptale/internal/handler"
	"snapptale/internal/preview"
	"snapptale/internal/service"
	"snapptale/internal/storage"
	"snapptale/internal/web"
	"snapptale/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	// 初始化服务
	client, err := ai.NewStoryClient(ctx, cfg.AI)
	if err != nil {
		return err
	}
	stories := service.NewStoryService(client, export.NewExporter(export.OptionsFromConfig(cfg.Export)))

	registry := preview.NewRegistry(storage.NewMemoryStorage(), cfg.Session.TTL)
	registry.Start(cfg.Session.CleanupInterval)
	defer registry.Stop()

	// 创建路由
	router, err := setupRouter(cfg,
		handler.NewStoryHandler(stories, cfg.Server.MaxUploadBytes),
		handler.NewPreviewHandler(registry, cfg.Server.MaxUploadBytes),
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("服务器启动在端口 %d (provider=%s)", cfg.Server.Port, client.ProviderName())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 等待信号优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("服务器启动失败: %w", err)
	case <-quit:
	}

	logger.Info("服务器正在关闭...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
		return err
	}
	logger.Info("服务器已关闭")
	return nil
}

func setupRouter(cfg *config.Config, stories *handler.StoryHandler, previews *handler.PreviewHandler) (*gin.Engine, error) {
	// 设置gin模式
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	// 中间件
	router.Use(handler.RequestLogger())
	router.Use(gin.Recovery())

	// CORS配置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	handler.Register(router, stories, previews)
	return router, nil
}
