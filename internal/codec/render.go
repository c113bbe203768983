package codec

import "strings"

const nerdleCSSClass = "nerdle"

// 距离等级家族按各自的表反查，保证还原后再解码结果不变
var (
	globleRender  = invert(globleGlyphs)
	globlecRender = invert(globlecGlyphs)
)

func invert(table map[rune]Verdict) map[Verdict]rune {
	out := make(map[Verdict]rune, len(table))
	for glyph, verdict := range table {
		out[verdict] = glyph
	}
	return out
}

// Render 由规范 pattern 还原字形块，仅用于没有保存原始文本的记录。
// audio 家族还原为一整行，其余家族按行以 \n 连接。
func Render(p Pattern, cssClass string, v Variant) string {
	var sb strings.Builder
	for i, line := range p {
		for _, r := range line {
			writeGlyph(&sb, r, cssClass, v)
		}
		if v != Audio && i < len(p)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func writeGlyph(sb *strings.Builder, r rune, cssClass string, v Variant) {
	switch v {
	case Globle, GlobleC:
		table := globleRender
		if v == GlobleC {
			table = globlecRender
		}
		if glyph, ok := table[Verdict(r)]; ok {
			sb.WriteRune(glyph)
		}
		return
	case Wordle32:
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
			sb.WriteRune(variationSelector)
			sb.WriteRune(enclosingKeycap)
		case Verdict(r) == Defeat:
			sb.WriteRune(redSquare)
		case r == ' ':
			sb.WriteByte(' ')
		}
		return
	}

	switch Verdict(r) {
	case Correct:
		sb.WriteRune(greenSquare)
	case Misplaced:
		if cssClass == nerdleCSSClass {
			sb.WriteRune(purpleSquare)
		} else {
			sb.WriteRune(yellowSquare)
		}
	case Wrong:
		sb.WriteRune(whiteSquare) // 深色模式下为 U+2B1B
	default:
		if v == Geo {
			// 行尾箭头，补回变体选择符
			sb.WriteRune(r)
			sb.WriteRune(variationSelector)
		}
	}
}

// PuzzleString 返回用于展示/复制的完整文本。
// 有原始结果块时原样拼接，否则由存储的 pattern 还原。
func PuzzleString(head string, rawPattern *string, stored, tail, cssClass string, v Variant) string {
	var sb strings.Builder
	sb.WriteString(head)
	if rawPattern != nil {
		sb.WriteString(*rawPattern)
	} else {
		for i, p := range SplitSubPatterns(stored) {
			if i > 0 {
				sb.WriteString(subPuzzleSeparator)
			}
			sb.WriteString(Render(p, cssClass, v))
		}
	}
	sb.WriteString(tail)
	return sb.String()
}

// BaseGuesses 计算展示时的"正确"猜测行数：
// 答案行数减去 pattern 中 "XX" 组的数量（每个未解出的格子会在答案末尾追加一行）。
func BaseGuesses(patternLines []string, solutionLines int) int {
	wrong := 0
	for _, line := range patternLines {
		for _, chunk := range strings.Split(line, " ") {
			if chunk == string(Defeat)+string(Defeat) {
				wrong++
			}
		}
	}
	return max(solutionLines-wrong, 0)
}

// WrongSolutionCursor 展示时依次分配追加的错误答案行号
type WrongSolutionCursor struct {
	base int
	next int
}

// NewWrongSolutionCursor 从 base 开始分配
func NewWrongSolutionCursor(base int) *WrongSolutionCursor {
	return &WrongSolutionCursor{base: base, next: base}
}

// Base 正确猜测行数，正确行下标为 [0, Base)
func (w *WrongSolutionCursor) Base() int {
	return w.base
}

// Advance 返回下一个错误答案行下标
func (w *WrongSolutionCursor) Advance() int {
	idx := w.next
	w.next++
	return idx
}
