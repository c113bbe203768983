package store

import (
	"database/sql"
	"fmt"

	"wordlearchive/internal/model"
)

// statsAccumulator 按时间顺序累计胜负与连胜
type statsAccumulator struct {
	won, lost     int
	attemptsSum   int
	streak        int
	longestStreak int
}

func (a *statsAccumulator) add(attempts sql.NullInt64) {
	if !attempts.Valid {
		a.lost++
		a.streak = 0
		return
	}
	a.won++
	a.attemptsSum += int(attempts.Int64)
	a.streak++
	a.longestStreak = max(a.longestStreak, a.streak)
}

func (a *statsAccumulator) stats() model.Stats {
	st := model.Stats{
		Won:           a.won,
		Lost:          a.lost,
		LongestStreak: a.longestStreak,
	}
	if a.won > 0 {
		st.AverageAttempts = float64(a.attemptsSum) / float64(a.won)
	}
	return st
}

// GetStats 全局、按家族、按站点的胜负统计。
// attempts 为空的谜题计为失败。
func (s *Store) GetStats() (*model.ArchiveStats, error) {
	sites, err := s.GetSites()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT p.site_id, s.variant, p.attempts
		FROM puzzles p
		JOIN sites s ON s.id = p.site_id
		ORDER BY p.puzzle_date, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var global statsAccumulator
	byVariant := make(map[string]*statsAccumulator)
	bySite := make(map[int64]*statsAccumulator)
	for rows.Next() {
		var siteID int64
		var variant string
		var attempts sql.NullInt64
		if err := rows.Scan(&siteID, &variant, &attempts); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}

		global.add(attempts)
		if byVariant[variant] == nil {
			byVariant[variant] = &statsAccumulator{}
		}
		byVariant[variant].add(attempts)
		if bySite[siteID] == nil {
			bySite[siteID] = &statsAccumulator{}
		}
		bySite[siteID].add(attempts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &model.ArchiveStats{
		Global:    global.stats(),
		ByVariant: make(map[string]model.Stats, len(byVariant)),
	}
	for variant, acc := range byVariant {
		result.ByVariant[variant] = acc.stats()
	}
	for _, site := range sites {
		acc, ok := bySite[site.ID]
		if !ok {
			continue
		}
		st := acc.stats()
		current := acc.streak
		st.CurrentStreak = &current
		result.BySite = append(result.BySite, model.SiteStats{
			SiteID:   site.ID,
			SiteName: site.Name,
			Variant:  string(site.Variant),
			Stats:    st,
		})
	}
	return result, nil
}
