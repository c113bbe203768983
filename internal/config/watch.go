package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// reloadDebounce 编辑器保存时会连续触发多个事件
const reloadDebounce = 200 * time.Millisecond

// Holder 运行期配置，支持热加载
type Holder struct {
	mu     sync.RWMutex
	path   string
	config *AppConfig
	logger *zap.Logger

	// level 非空时，重新加载会同步 [log] level
	level *zap.AtomicLevel
}

// NewHolder 创建配置持有者；path 为配置文件路径，可以不存在
func NewHolder(path string, config *AppConfig, logger *zap.Logger) *Holder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Holder{
		path:   path,
		config: config,
		logger: logger.Named("config"),
	}
}

// Get 返回当前配置快照，调用方不得修改
func (h *Holder) Get() *AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// BindLogLevel 让 Reload 把 [log] level 应用到 level
func (h *Holder) BindLogLevel(level zap.AtomicLevel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.level = &level
}

// Path 配置文件路径
func (h *Holder) Path() string {
	return h.path
}

// Reload 重新读取配置文件。
// 只替换归档业务配置与日志级别；监听地址、数据目录需要重启后生效。
func (h *Holder) Reload() error {
	next, err := LoadConfig(h.path)
	if err != nil {
		return err
	}
	lvl, err := zapcore.ParseLevel(next.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", next.Log.Level, err)
	}

	h.mu.Lock()
	merged := *h.config
	merged.Archive = next.Archive
	merged.Log = next.Log
	h.config = &merged
	if h.level != nil {
		h.level.SetLevel(lvl)
	}
	h.mu.Unlock()

	h.logger.Info("config reloaded",
		zap.String("path", h.path),
		zap.Int("write_tokens", len(next.Archive.WriteTokens)),
		zap.Int("spoiler_protection_days", next.Archive.SpoilerProtectionDays),
		zap.Stringer("log_level", lvl),
	)
	return nil
}

// Watch 监听配置文件变化并热加载，阻塞直到 ctx 结束。
// 监听所在目录而不是文件本身，以兼容"写临时文件再改名"的保存方式。
func (h *Holder) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	h.logger.Debug("watching config", zap.String("path", h.path))

	target := filepath.Clean(h.path)
	timer := time.NewTimer(reloadDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.logger.Warn("config watcher error", zap.Error(err))

		case <-timer.C:
			if err := h.Reload(); err != nil {
				// 保留旧配置
				h.logger.Warn("config reload failed; keeping previous config", zap.Error(err))
			}
		}
	}
}
