package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"wordlearchive/internal/api"
	"wordlearchive/internal/config"
	"wordlearchive/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
	logger *zap.Logger
}

// NewServer 创建服务器
func NewServer(holder *config.Holder, st *store.Store, logger *zap.Logger) *Server {
	cfg := holder.Get()
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	exportDir := config.GetDataPath(cfg, "exports", "")
	handler := api.NewHandler(api.Options{
		Store:     st,
		Config:    holder,
		Logger:    logger,
		ExportDir: filepath.Clean(exportDir),
	})

	s := &Server{
		router: gin.New(),
		store:  st,
		api:    handler,
		logger: logger.Named("server"),
	}

	s.setupRoutes(cfg)

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(cfg *config.AppConfig) {
	s.router.Use(gin.Recovery())
	s.router.Use(api.RequestLogger(s.logger))
	s.router.SetHTMLTemplate(s.api.Templates())

	// CORS（仅 JSON 接口需要）
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	basePath := api.NormalizeBasePath(cfg.Server.BasePath)
	group := s.router.Group(basePath)
	{
		s.api.RegisterRoutes(group)
	}

	// 运维接口不受 base_path 影响
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/healthz", func(c *gin.Context) {
		if err := s.store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Handler 返回 http.Handler（测试使用）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，ctx 结束时优雅退出
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
