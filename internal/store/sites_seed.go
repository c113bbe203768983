package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"wordlearchive/internal/model"
)

// SiteSeedFile 站点定义文件
type SiteSeedFile struct {
	Sites []seedSite `yaml:"sites"`
}

// seedSite available 省略时视为可提交
type seedSite struct {
	model.Site `yaml:",inline"`
	Available  *bool `yaml:"available"`
}

// LoadSiteSeed 读取 YAML 站点定义
func LoadSiteSeed(path string) ([]model.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites file %s: %w", path, err)
	}
	var seed SiteSeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse sites file %s: %w", path, err)
	}
	sites := make([]model.Site, 0, len(seed.Sites))
	for i, entry := range seed.Sites {
		site := entry.Site
		if site.Name == "" || site.URL == "" {
			return nil, fmt.Errorf("sites file %s: entry %d needs name and url", path, i+1)
		}
		site.Available = entry.Available == nil || *entry.Available
		sites = append(sites, site)
	}
	return sites, nil
}

// ImportSites 导入站点定义，已存在的 ID 会被更新
func (s *Store) ImportSites(sites []model.Site) (int, error) {
	for i := range sites {
		if err := s.UpsertSite(&sites[i]); err != nil {
			return i, err
		}
	}
	return len(sites), nil
}
