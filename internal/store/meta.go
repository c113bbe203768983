package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

const schemaVersionKey = "schema_version"

// GetMeta 获取元数据项
func (s *Store) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("meta key %s: %w", key, ErrNotFound)
		}
		return "", err
	}
	return value, nil
}

// SetMeta 设置元数据项
func (s *Store) SetMeta(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set meta %s: %w", key, err)
	}
	return nil
}

// GetSchemaVersion 获取数据库结构版本，新库返回 0
func (s *Store) GetSchemaVersion() (int, error) {
	value, err := s.GetMeta(schemaVersionKey)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid schema version %q: %w", value, err)
	}
	return version, nil
}

// SetSchemaVersion 设置数据库结构版本
func (s *Store) SetSchemaVersion(version int) error {
	return s.SetMeta(schemaVersionKey, strconv.Itoa(version))
}
