package main

import (
	"fmt"

	"go.uber.org/zap"

	"wordlearchive/internal/config"
	"wordlearchive/internal/store"
)

// openStore 确保数据目录存在并打开数据库
func openStore() (*store.Store, error) {
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := config.DBPath(cfg)
	st, err := store.New(dbPath)
	if err != nil {
		return nil, err
	}
	version, _ := st.GetSchemaVersion()
	logger.Debug("database opened",
		zap.String("data_dir", dir),
		zap.String("db", dbPath),
		zap.Int("schema_version", version),
	)
	return st, nil
}
