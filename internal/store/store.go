package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// SchemaVersion 当前数据库结构版本。
// 1: 仅有 pattern/solution；2: 增加 attempts；3: 增加 raw_pattern
const SchemaVersion = 3

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("not found")

// Store 谜题归档的 SQLite 存储
type Store struct {
	db *sql.DB
}

// New 打开（必要时创建）dbPath 处的归档数据库并升级到 SchemaVersion
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// 写入串行化，避免 database is locked
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// legacyColumns 旧版本 puzzles 表缺少的列，按引入版本排列
var legacyColumns = []struct {
	version int
	name    string
	ddl     string
}{
	{2, "attempts", "ALTER TABLE puzzles ADD COLUMN attempts INTEGER NULL"},
	{3, "raw_pattern", "ALTER TABLE puzzles ADD COLUMN raw_pattern TEXT NULL"},
}

func (s *Store) migrate() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	current, err := s.GetSchemaVersion()
	if err != nil {
		return err
	}
	if current >= SchemaVersion {
		return nil
	}

	// CREATE TABLE IF NOT EXISTS 不会补齐旧表的列
	existing, err := s.puzzleColumns()
	if err != nil {
		return err
	}
	for _, col := range legacyColumns {
		if existing[col.name] {
			continue
		}
		if _, err := s.db.Exec(col.ddl); err != nil {
			return fmt.Errorf("failed to upgrade schema to version %d: %w", col.version, err)
		}
	}
	return s.SetSchemaVersion(SchemaVersion)
}

func (s *Store) puzzleColumns() (map[string]bool, error) {
	rows, err := s.db.Query("PRAGMA table_info(puzzles)")
	if err != nil {
		return nil, fmt.Errorf("failed to inspect puzzles table: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping 健康检查
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// BeginTx 开始事务
func (s *Store) BeginTx() (*sql.Tx, error) {
	return s.db.Begin()
}
