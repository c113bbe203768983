package model

import "wordlearchive/internal/codec"

// Site 谜题站点
type Site struct {
	ID        int64         `json:"id" yaml:"id"`
	Name      string        `json:"name" yaml:"name"`
	URL       string        `json:"url" yaml:"url"`
	CSSClass  string        `json:"cssClass" yaml:"css_class"` // 页面样式，也决定 nerdle 的紫色方块
	Variant   codec.Variant `json:"variant" yaml:"variant"`
	Notes     string        `json:"notes,omitempty" yaml:"notes"`
	Available bool          `json:"available" yaml:"-"` // 下线站点只保留历史记录
	Ordering  int           `json:"ordering" yaml:"ordering"`
}

// SiteStatus 某天某站点的提交状态（populate 页面使用）
type SiteStatus struct {
	Site
	Solved bool `json:"solved"`
}
