package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile 默认配置文件名（位于可执行文件同目录）
const DefaultConfigFile = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Archive ArchiveConfig `toml:"archive"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
	BasePath   string `toml:"base_path"`
	DevMode    bool   `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBFile  string `toml:"db_file"`
}

// ArchiveConfig 归档业务配置
type ArchiveConfig struct {
	// WriteTokens 为空时提交不需要 token
	WriteTokens []string `toml:"write_tokens"`
	// SpoilerProtectionDays 多少天后公开答案；小于 0 表示永不公开
	SpoilerProtectionDays int `toml:"spoiler_protection_days"`
	// SitesFile 站点定义（YAML），启动时导入
	SitesFile string `toml:"sites_file"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path                string
	ListenAddrSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:8087",
			BasePath:   "/",
			DevMode:    false,
		},
		Data: DataConfig{
			DataDir: "data",
			DBFile:  "wordlearchive.db",
		},
		Archive: ArchiveConfig{
			WriteTokens:           nil,
			SpoilerProtectionDays: 1,
			SitesFile:             "",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func isListenAddrSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["listen_addr"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, DefaultConfigFile)
}

// LoadConfigWithInfo 从 configPath 加载配置并返回元信息
// configPath 为空时使用 DefaultConfigPath；文件不存在时返回默认配置
func LoadConfigWithInfo(configPath string) (*AppConfig, LoadConfigInfo, error) {
	if configPath == "" {
		configPath = DefaultConfigPath()
	}
	info := LoadConfigInfo{Path: configPath}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			return config, info, nil
		}
		return nil, info, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	info.ListenAddrSpecified = isListenAddrSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	// 环境变量覆盖（用于部署 / 本地运行）
	if v := os.Getenv("WORDLEARCHIVE_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}

	return config, info, nil
}

// LoadConfig 从 configPath 加载配置
func LoadConfig(configPath string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(configPath)
	return config, err
}

// SaveConfig 保存配置到 configPath
func SaveConfig(configPath string, config *AppConfig) error {
	if configPath == "" {
		configPath = DefaultConfigPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// resolveDataDir 相对路径的数据目录位于可执行文件同目录下
func resolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := resolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"exports", "backups"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(resolveDataDir(config), subdir, filename)
}

// DBPath 数据库文件路径
func DBPath(config *AppConfig) string {
	return GetDataPath(config, "", config.Data.DBFile)
}

// HasWriteToken 是否配置了写入 token，以及 token 是否有效。
// 未配置任何 token 时返回 ifNoneConfigured。
func (c *AppConfig) HasWriteToken(token string, ifNoneConfigured bool) bool {
	if len(c.Archive.WriteTokens) == 0 {
		return ifNoneConfigured
	}
	if token == "" {
		return false
	}
	for _, t := range c.Archive.WriteTokens {
		if t == token {
			return true
		}
	}
	return false
}
