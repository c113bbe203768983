package model

// Stats 胜负统计
type Stats struct {
	Won             int     `json:"won"`
	Lost            int     `json:"lost"`
	AverageAttempts float64 `json:"averageAttempts"` // 仅统计胜利的谜题
	LongestStreak   int     `json:"longestStreak"`
	CurrentStreak   *int    `json:"currentStreak,omitempty"` // 只有单个站点有意义
}

// Total 总局数
func (s Stats) Total() int {
	return s.Won + s.Lost
}

// PercentWon 胜率（0-100），没有记录时为 0
func (s Stats) PercentWon() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Won) * 100 / float64(s.Total())
}

// SiteStats 单个站点的统计
type SiteStats struct {
	SiteID   int64  `json:"siteId"`
	SiteName string `json:"siteName"`
	Variant  string `json:"variant"`
	Stats
}

// ArchiveStats 全部统计
type ArchiveStats struct {
	Global    Stats            `json:"global"`
	ByVariant map[string]Stats `json:"byVariant"`
	BySite    []SiteStats      `json:"bySite"`
}
