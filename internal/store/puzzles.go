package store

import (
	"database/sql"
	"errors"
	"fmt"

	"wordlearchive/internal/model"
)

const puzzleColumns = "p.id, p.site_id, p.puzzle_date, p.day_ordinal, p.head, p.tail, p.pattern, p.solution, p.attempts, p.raw_pattern"

const sitePuzzleQuery = "SELECT " + siteColumns + ", " + puzzleColumns + `
	FROM puzzles p
	JOIN sites s ON s.id = p.site_id
`

func scanSitePuzzle(row rowScanner) (model.SitePuzzle, error) {
	var sp model.SitePuzzle
	var attempts sql.NullInt64
	var raw sql.NullString
	p := &sp.Puzzle
	err := scanSite(row, &sp.Site,
		&p.ID, &p.SiteID, &p.Date, &p.DayOrdinal, &p.Head, &p.Tail, &p.Pattern, &p.Solution, &attempts, &raw)
	if err != nil {
		return sp, err
	}
	if attempts.Valid {
		n := int(attempts.Int64)
		p.Attempts = &n
	}
	if raw.Valid {
		r := raw.String
		p.RawPattern = &r
	}
	return sp, nil
}

func (s *Store) querySitePuzzles(where string, args ...any) ([]model.SitePuzzle, error) {
	rows, err := s.db.Query(sitePuzzleQuery+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query puzzles: %w", err)
	}
	defer rows.Close()

	var puzzles []model.SitePuzzle
	for rows.Next() {
		sp, err := scanSitePuzzle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan puzzle: %w", err)
		}
		puzzles = append(puzzles, sp)
	}
	return puzzles, rows.Err()
}

// GetMostRecentPuzzleDate 最近一次提交的日期；没有任何记录时返回 ErrNotFound
func (s *Store) GetMostRecentPuzzleDate() (string, error) {
	var date sql.NullString
	if err := s.db.QueryRow("SELECT MAX(puzzle_date) FROM puzzles").Scan(&date); err != nil {
		return "", fmt.Errorf("failed to get most recent puzzle date: %w", err)
	}
	if !date.Valid {
		return "", ErrNotFound
	}
	return date.String, nil
}

// GetPuzzlesOnDate 某天的全部谜题，按站点顺序
func (s *Store) GetPuzzlesOnDate(date string) ([]model.SitePuzzle, error) {
	return s.querySitePuzzles("WHERE p.puzzle_date = ? ORDER BY s.ordering, s.id, p.id", date)
}

// GetPuzzleByID 按 ID 获取谜题
func (s *Store) GetPuzzleByID(id int64) (*model.SitePuzzle, error) {
	row := s.db.QueryRow(sitePuzzleQuery+"WHERE p.id = ?", id)
	sp, err := scanSitePuzzle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("puzzle %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get puzzle %d: %w", id, err)
	}
	return &sp, nil
}

// ListPuzzles 全部谜题，按日期和站点顺序（导出使用）
func (s *Store) ListPuzzles() ([]model.SitePuzzle, error) {
	return s.querySitePuzzles("ORDER BY p.puzzle_date, s.ordering, s.id, p.id")
}

// StorePuzzle 保存谜题并回写 ID；记录创建后不再修改
func (s *Store) StorePuzzle(p *model.Puzzle) error {
	res, err := s.db.Exec(`
		INSERT INTO puzzles
			(site_id, puzzle_date, day_ordinal, head, tail, pattern, solution, attempts, raw_pattern)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.SiteID, p.Date, p.DayOrdinal, p.Head, p.Tail, p.Pattern, p.Solution, p.Attempts, p.RawPattern)
	if err != nil {
		return fmt.Errorf("failed to insert puzzle: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get puzzle id: %w", err)
	}
	p.ID = id
	return nil
}
