// Package api 归档站点的 HTTP 接口
package api

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wordlearchive/internal/codec"
	"wordlearchive/internal/config"
	"wordlearchive/internal/exporter"
	"wordlearchive/internal/model"
	"wordlearchive/internal/store"
)

// Handler 归档 HTTP 处理器
type Handler struct {
	store     *store.Store
	codec     *codec.Codec
	config    *config.Holder
	exporter  *exporter.Exporter
	downloads *exportDownloadStore
	logger    *zap.Logger

	basePath  string
	exportDir string
	now       func() time.Time
}

// Options 处理器依赖
type Options struct {
	Store  *store.Store
	Config *config.Holder
	Logger *zap.Logger
	// ExportDir 导出文件临时目录，为空时使用系统临时目录
	ExportDir string
	// Now 当前时间，测试中可替换
	Now func() time.Time
}

// NewHandler 创建处理器
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		store:     opts.Store,
		codec:     codec.New(logger),
		config:    opts.Config,
		exporter:  exporter.NewExporter(opts.Store, logger),
		downloads: newExportDownloadStore(now),
		logger:    logger.Named("api"),
		basePath:  NormalizeBasePath(opts.Config.Get().Server.BasePath),
		exportDir: opts.ExportDir,
		now:       now,
	}
}

// NormalizeBasePath 统一为以 / 开头和结尾的形式
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

// Templates 页面模板，需要安装到 gin.Engine
func (h *Handler) Templates() *template.Template {
	return pageTemplates
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 首页跳转到当天
	router.GET("/", h.RedirectToday)
	router.GET("/wordle", h.RedirectToday)

	// 谜题浏览
	router.GET("/wordle/:date", h.GetPuzzlesOnDate)
	router.GET("/puzzle/:id", h.GetPuzzle)

	// 提交
	router.GET("/populate", h.requireWriteToken(true), h.GetPopulate)
	router.POST("/populate", h.requireWriteToken(true), h.PostPopulate)

	// 统计
	router.GET("/stats", h.GetStats)

	// 数据导出
	router.GET("/export", h.requireWriteToken(true), h.Export)
	router.POST("/export", h.requireWriteToken(true), h.PrepareExport)
	router.GET("/export/download/:token", h.DownloadExport)
}

func (h *Handler) today() string {
	return h.now().Format(model.DateLayout)
}

// hasValidToken 检查 ?token=；未配置任何 token 时返回 ifNoneConfigured
func (h *Handler) hasValidToken(c *gin.Context, ifNoneConfigured bool) bool {
	token := c.Query("token")
	if token == "" {
		token = c.PostForm("token")
	}
	return h.config.Get().HasWriteToken(token, ifNoneConfigured)
}

func (h *Handler) requireWriteToken(ifNoneConfigured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.hasValidToken(c, ifNoneConfigured) {
			h.renderError(c, http.StatusForbidden, "a valid token is required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// wantsJSON ?format=json 或 Accept 只接受 JSON
func wantsJSON(c *gin.Context) bool {
	if c.Query("format") == "json" {
		return true
	}
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

type errorPage struct {
	Page
	Status int
	Reason string
}

func (h *Handler) renderError(c *gin.Context, status int, reason string) {
	if wantsJSON(c) {
		c.JSON(status, gin.H{"error": reason})
		return
	}
	c.HTML(status, "error.html", errorPage{Page: h.page(), Status: status, Reason: reason})
}

// renderStoreError ErrNotFound 映射为 404，其余为 500
func (h *Handler) renderStoreError(c *gin.Context, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		h.renderError(c, http.StatusNotFound, what+" not found")
		return
	}
	h.logger.Error("store failure", zap.String("what", what), zap.Error(err))
	h.renderError(c, http.StatusInternalServerError, "internal server error")
}
