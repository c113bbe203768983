package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfigWithInfo_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, path, info.Path)
	assert.False(t, info.ListenAddrSpecified)
}

func TestLoadConfigWithInfo_ParsesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[server]
listen_addr = "0.0.0.0:9000"
base_path = "/archive/"

[archive]
write_tokens = ["alpha", "beta"]
spoiler_protection_days = -1

[log]
level = "debug"
`)

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.ListenAddrSpecified)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.ListenAddr)
	assert.Equal(t, "/archive/", cfg.Server.BasePath)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Archive.WriteTokens)
	assert.Equal(t, -1, cfg.Archive.SpoilerProtectionDays)
	assert.Equal(t, "debug", cfg.Log.Level)
	// 未写出的字段保持默认值
	assert.Equal(t, "wordlearchive.db", cfg.Data.DBFile)
}

func TestLoadConfigWithInfo_ListenAddrNotSpecified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[server]\nbase_path = \"/\"\n")

	_, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.False(t, info.ListenAddrSpecified)
}

func TestLoadConfigWithInfo_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[server\nlisten_addr=")

	_, _, err := LoadConfigWithInfo(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Archive.WriteTokens = []string{"secret"}
	cfg.Data.DataDir = t.TempDir()

	require.NoError(t, SaveConfig(path, cfg))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnsureDataDir_AbsolutePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")

	dir, err := EnsureDataDir(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Data.DataDir, dir)
	assert.DirExists(t, filepath.Join(dir, "exports"))
	assert.Equal(t, filepath.Join(dir, "wordlearchive.db"), DBPath(cfg))
}

func TestHasWriteToken(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.HasWriteToken("", true))
	assert.False(t, cfg.HasWriteToken("anything", false))

	cfg.Archive.WriteTokens = []string{"alpha"}
	assert.True(t, cfg.HasWriteToken("alpha", false))
	assert.False(t, cfg.HasWriteToken("beta", true))
	assert.False(t, cfg.HasWriteToken("", true))
}

func TestHolder_ReloadKeepsListenAddr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[server]\nlisten_addr = \"127.0.0.1:1\"\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	h := NewHolder(path, cfg, zaptest.NewLogger(t))
	writeFile(t, path, "[server]\nlisten_addr = \"127.0.0.1:2\"\n[archive]\nwrite_tokens = [\"new\"]\n")
	require.NoError(t, h.Reload())

	got := h.Get()
	assert.Equal(t, "127.0.0.1:1", got.Server.ListenAddr)
	assert.Equal(t, []string{"new"}, got.Archive.WriteTokens)
}

func TestHolder_ReloadAppliesLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[log]\nlevel = \"info\"\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	h := NewHolder(path, cfg, zaptest.NewLogger(t))
	h.BindLogLevel(level)

	writeFile(t, path, "[log]\nlevel = \"debug\"\n")
	require.NoError(t, h.Reload())
	assert.Equal(t, zapcore.DebugLevel, level.Level())
	assert.Equal(t, "debug", h.Get().Log.Level)

	// 无效级别：保留旧配置与旧级别
	writeFile(t, path, "[log]\nlevel = \"loud\"\n[archive]\nwrite_tokens = [\"x\"]\n")
	require.Error(t, h.Reload())
	assert.Equal(t, zapcore.DebugLevel, level.Level())
	assert.Empty(t, h.Get().Archive.WriteTokens)
}

func TestHolder_WatchPicksUpChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[archive]\nspoiler_protection_days = 1\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	h := NewHolder(path, cfg, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Watch(ctx) }()

	// 等待 watcher 就绪后再写入
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "[archive]\nspoiler_protection_days = 7\n")

	assert.Eventually(t, func() bool {
		return h.Get().Archive.SpoilerProtectionDays == 7
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
