package store

import (
	"database/sql"
	"errors"
	"fmt"

	"wordlearchive/internal/codec"
	"wordlearchive/internal/model"
)

const siteColumns = "s.id, s.name, s.url, s.css_class, s.variant, s.notes, s.available, s.ordering"

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSite 按 siteColumns 的顺序读取，extra 追加在后面
func scanSite(row rowScanner, site *model.Site, extra ...any) error {
	var variant string
	dest := []any{&site.ID, &site.Name, &site.URL, &site.CSSClass, &variant, &site.Notes, &site.Available, &site.Ordering}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	site.Variant = codec.ParseVariant(variant)
	return nil
}

// GetSites 获取全部站点，按 ordering, id 排序
func (s *Store) GetSites() ([]model.Site, error) {
	rows, err := s.db.Query("SELECT " + siteColumns + " FROM sites s ORDER BY s.ordering, s.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	var sites []model.Site
	for rows.Next() {
		var site model.Site
		if err := scanSite(rows, &site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// GetSite 按 ID 获取站点
func (s *Store) GetSite(id int64) (*model.Site, error) {
	var site model.Site
	row := s.db.QueryRow("SELECT "+siteColumns+" FROM sites s WHERE s.id = ?", id)
	if err := scanSite(row, &site); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("site %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get site %d: %w", id, err)
	}
	return &site, nil
}

// UpsertSite 新增或更新站点；ID 为 0 时由数据库分配并回写
func (s *Store) UpsertSite(site *model.Site) error {
	if site.Variant == "" {
		site.Variant = codec.Standard
	}

	if site.ID == 0 {
		res, err := s.db.Exec(`
			INSERT INTO sites (name, url, css_class, variant, notes, available, ordering)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, site.Name, site.URL, site.CSSClass, string(site.Variant), site.Notes, site.Available, site.Ordering)
		if err != nil {
			return fmt.Errorf("failed to insert site %s: %w", site.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get site id: %w", err)
		}
		site.ID = id
		return nil
	}

	_, err := s.db.Exec(`
		INSERT INTO sites (id, name, url, css_class, variant, notes, available, ordering)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			url = excluded.url,
			css_class = excluded.css_class,
			variant = excluded.variant,
			notes = excluded.notes,
			available = excluded.available,
			ordering = excluded.ordering
	`, site.ID, site.Name, site.URL, site.CSSClass, string(site.Variant), site.Notes, site.Available, site.Ordering)
	if err != nil {
		return fmt.Errorf("failed to upsert site %d: %w", site.ID, err)
	}
	return nil
}

// GetSolvedSitesForDate 返回当天已有提交的站点 ID 集合
func (s *Store) GetSolvedSitesForDate(date string) (map[int64]bool, error) {
	rows, err := s.db.Query(`
		SELECT s.id FROM sites s
		WHERE EXISTS (
			SELECT 1 FROM puzzles p
			WHERE p.site_id = s.id AND p.puzzle_date = ?
		)
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query solved sites: %w", err)
	}
	defer rows.Close()

	solved := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		solved[id] = true
	}
	return solved, rows.Err()
}

// GetSiteStatuses 可提交站点及当天是否已提交
func (s *Store) GetSiteStatuses(date string) ([]model.SiteStatus, error) {
	sites, err := s.GetSites()
	if err != nil {
		return nil, err
	}
	solved, err := s.GetSolvedSitesForDate(date)
	if err != nil {
		return nil, err
	}

	statuses := make([]model.SiteStatus, 0, len(sites))
	for _, site := range sites {
		if !site.Available {
			continue
		}
		statuses = append(statuses, model.SiteStatus{Site: site, Solved: solved[site.ID]})
	}
	return statuses, nil
}
