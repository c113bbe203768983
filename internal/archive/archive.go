// Package archive 把存储的谜题记录转换为展示用的结构。
package archive

import (
	"strings"
	"time"

	"wordlearchive/internal/codec"
	"wordlearchive/internal/model"
)

// GuessLine 一行猜测与对应的答案行
type GuessLine struct {
	Pattern  string `json:"pattern"`
	Solution string `json:"solution"`
}

// SubPuzzle 组合谜题中的一个子谜题
type SubPuzzle struct {
	PatternLines  []string    `json:"patternLines"`
	SolutionLines []string    `json:"-"`
	GuessLines    []GuessLine `json:"guessLines"`
	Solution      string      `json:"solution"`
	Victory       bool        `json:"victory"`
}

// PuzzlePart 页面上的一道谜题
type PuzzlePart struct {
	Site       model.Site  `json:"site"`
	ID         int64       `json:"id"`
	Date       string      `json:"date"`
	DayOrdinal int         `json:"dayOrdinal"`
	Head       string      `json:"head"`
	Tail       string      `json:"tail"`
	Pattern    string      `json:"-"`
	SubPuzzles []SubPuzzle `json:"subPuzzles"`
	RawGuesses *string     `json:"rawGuesses,omitempty"`
	Attempts   *int        `json:"attempts,omitempty"`
}

// FromStored 由数据库记录构建展示结构。
// 子谜题 i 的答案取答案记录倒数第 n-i 行（n 为子谜题数）。
func FromStored(sp model.SitePuzzle) PuzzlePart {
	subPatterns := codec.SplitSubPatterns(sp.Pattern)
	solutionLines := strings.Split(sp.Solution, "\n")

	subs := make([]SubPuzzle, 0, len(subPatterns))
	for i, pattern := range subPatterns {
		lines := []string(pattern)

		guesses := make([]GuessLine, 0, len(lines))
		for j, line := range lines {
			if j >= len(solutionLines) {
				break
			}
			guesses = append(guesses, GuessLine{Pattern: line, Solution: solutionLines[j]})
		}

		var solution string
		if idx := len(solutionLines) - len(subPatterns) + i; idx >= 0 && idx < len(solutionLines) {
			solution = solutionLines[idx]
		}

		victory := false
		for _, line := range lines {
			if codec.IsVictoryLine(line) {
				victory = true
				break
			}
		}

		subs = append(subs, SubPuzzle{
			PatternLines:  lines,
			SolutionLines: solutionLines,
			GuessLines:    guesses,
			Solution:      solution,
			Victory:       victory,
		})
	}

	return PuzzlePart{
		Site:       sp.Site,
		ID:         sp.ID,
		Date:       sp.Date,
		DayOrdinal: sp.DayOrdinal,
		Head:       sp.Head,
		Tail:       sp.Tail,
		Pattern:    sp.Pattern,
		SubPuzzles: subs,
		RawGuesses: sp.RawPattern,
		Attempts:   sp.Attempts,
	}
}

// FromStoredList 批量转换
func FromStoredList(list []model.SitePuzzle) []PuzzlePart {
	parts := make([]PuzzlePart, 0, len(list))
	for _, sp := range list {
		parts = append(parts, FromStored(sp))
	}
	return parts
}

// Text 用于复制分享的完整文本
func (p PuzzlePart) Text() string {
	return codec.PuzzleString(p.Head, p.RawGuesses, p.Pattern, p.Tail, p.Site.CSSClass, p.Site.Variant)
}

// Won 是否胜利（尝试次数存在）
func (p PuzzlePart) Won() bool {
	return p.Attempts != nil
}

// IsWordle32 模板按家族选择展示方式
func (p PuzzlePart) IsWordle32() bool {
	return p.Site.Variant == codec.Wordle32
}

// BaseGuesses 答案记录中属于已解出格子的行数
func (p PuzzlePart) BaseGuesses() int {
	var lines, solution []string
	for _, sub := range p.SubPuzzles {
		lines = append(lines, sub.PatternLines...)
		solution = sub.SolutionLines
	}
	return codec.BaseGuesses(lines, len(solution))
}

// AllowSpoiling 谜题日期是否已过保护期。
// protectionDays < 0 表示永不公开。
func AllowSpoiling(date, today time.Time, protectionDays int) bool {
	if protectionDays < 0 {
		return false
	}
	d := truncateDay(date)
	lastUnprotected := truncateDay(today).AddDate(0, 0, -protectionDays)
	return !d.After(lastUnprotected)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(model.DateLayout, s)
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}
