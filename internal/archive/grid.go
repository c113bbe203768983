package archive

import (
	"strings"

	"wordlearchive/internal/codec"
)

// GridCell wordle32 网格中的一个格子
type GridCell struct {
	Guesses  string `json:"guesses"` // 两位数字，未解出时为空
	Solution string `json:"solution"`
	Solved   bool   `json:"solved"`
}

// Grid 把 wordle32 的格子与答案行对应起来。
// 已解出的格子按顺序使用前 BaseGuesses 行，未解出的格子依次使用其后追加的行。
func (p PuzzlePart) Grid() [][]GridCell {
	if len(p.SubPuzzles) == 0 {
		return nil
	}
	sub := p.SubPuzzles[0]
	cursor := codec.NewWrongSolutionCursor(p.BaseGuesses())
	correct := 0

	solutionAt := func(idx int) string {
		if idx >= 0 && idx < len(sub.SolutionLines) {
			return sub.SolutionLines[idx]
		}
		return ""
	}

	grid := make([][]GridCell, 0, len(sub.PatternLines))
	for _, line := range sub.PatternLines {
		var row []GridCell
		for _, chunk := range strings.Split(line, " ") {
			if chunk == "" {
				continue
			}
			if chunk == strings.Repeat(string(codec.Defeat), 2) {
				row = append(row, GridCell{Solution: solutionAt(cursor.Advance())})
				continue
			}
			idx := -1
			if correct < cursor.Base() {
				idx = correct
				correct++
			}
			row = append(row, GridCell{Guesses: chunk, Solution: solutionAt(idx), Solved: true})
		}
		grid = append(grid, row)
	}
	return grid
}
