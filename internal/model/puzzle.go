package model

import "wordlearchive/internal/codec"

// DateLayout 谜题日期格式
const DateLayout = "2006-01-02"

// Puzzle 已归档的谜题记录
type Puzzle struct {
	ID         int64   `json:"id"`
	SiteID     int64   `json:"siteId"`
	Date       string  `json:"date"`       // YYYY-MM-DD
	DayOrdinal int     `json:"dayOrdinal"` // 站点自己的期号
	Head       string  `json:"head"`
	Tail       string  `json:"tail"`
	Pattern    string  `json:"pattern"`
	Solution   string  `json:"solution"`
	Attempts   *int    `json:"attempts,omitempty"`
	RawPattern *string `json:"rawPattern,omitempty"` // 旧数据为空
}

// NewPuzzle 由校验通过的记录生成待存储的谜题
func NewPuzzle(siteID int64, date string, dayOrdinal int, rec codec.Record) *Puzzle {
	return &Puzzle{
		SiteID:     siteID,
		Date:       date,
		DayOrdinal: dayOrdinal,
		Head:       rec.Head,
		Tail:       rec.Tail,
		Pattern:    rec.Pattern,
		Solution:   rec.Solution,
		Attempts:   rec.Attempts,
		RawPattern: rec.RawPattern,
	}
}

// SitePuzzle 带站点信息的谜题
type SitePuzzle struct {
	Puzzle
	Site Site `json:"site"`
}
