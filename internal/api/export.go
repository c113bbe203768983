package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wordlearchive/internal/exporter"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	downloadTTL     = 10 * time.Minute
)

func (h *Handler) exportOptions(c *gin.Context) exporter.ExportOptions {
	return exporter.ExportOptions{From: c.Query("from"), To: c.Query("to")}
}

func exportFilename(today string) string {
	return fmt.Sprintf("wordle-archive-%s.xlsx", today)
}

func buildExportContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}

// Export 直接下载 xlsx
func (h *Handler) Export(c *gin.Context) {
	file, err := h.exporter.Export(h.exportOptions(c))
	if err != nil {
		h.logger.Error("export failed", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "export failed")
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", buildExportContentDisposition(exportFilename(h.today())))
	c.Header("Content-Type", xlsxContentType)
	if err := file.Write(c.Writer); err != nil {
		h.logger.Error("failed to write export", zap.Error(err))
	}
}

// PrepareExport 生成文件并返回一次性下载链接
func (h *Handler) PrepareExport(c *gin.Context) {
	file, err := h.exporter.Export(h.exportOptions(c))
	if err != nil {
		h.logger.Error("export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	defer file.Close()

	dir := h.exportDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		h.logger.Error("failed to create export dir", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	tmp, err := os.CreateTemp(dir, "export-*.xlsx")
	if err != nil {
		h.logger.Error("failed to create export file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	path := tmp.Name()
	_ = tmp.Close()
	if err := file.SaveAs(path); err != nil {
		_ = os.Remove(path)
		h.logger.Error("failed to save export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	token := h.downloads.put(path, exportFilename(h.today()), downloadTTL)
	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"downloadUrl": h.basePath + "export/download/" + token,
		"expiresIn":   int(downloadTTL.Seconds()),
	})
}

// DownloadExport 一次性下载
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}
	defer os.Remove(item.path)

	if _, err := os.Stat(item.path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "export file missing"})
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(item.filename))
	c.Header("Content-Type", xlsxContentType)
	c.File(filepath.Clean(item.path))
}
