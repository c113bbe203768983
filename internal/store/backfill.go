package store

import (
	"fmt"

	"wordlearchive/internal/codec"
)

// BackfillResult 回填结果
type BackfillResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}

// BackfillAttempts 为旧记录补算尝试次数。
// 只处理 attempts 与 raw_pattern 都为空的记录，按最后一行 pattern 计算；
// 最后一行不是全 C 的记录保持为空（失败）。
func (s *Store) BackfillAttempts() (*BackfillResult, error) {
	tx, err := s.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT id, pattern FROM puzzles WHERE attempts IS NULL AND raw_pattern IS NULL")
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy puzzles: %w", err)
	}

	type pending struct {
		id       int64
		attempts int
	}
	var updates []pending
	result := &BackfillResult{}
	for rows.Next() {
		var id int64
		var pattern string
		if err := rows.Scan(&id, &pattern); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan legacy puzzle: %w", err)
		}
		result.Scanned++
		if n := codec.AttemptsFromLastLine(pattern); n != nil {
			updates = append(updates, pending{id: id, attempts: *n})
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stmt, err := tx.Prepare("UPDATE puzzles SET attempts = ? WHERE id = ?")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare backfill: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.Exec(u.attempts, u.id); err != nil {
			return nil, fmt.Errorf("failed to backfill puzzle %d: %w", u.id, err)
		}
		result.Updated++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit backfill: %w", err)
	}
	return result, nil
}
