package codec

// Verdict 单格判定码
type Verdict byte

const (
	Correct   Verdict = 'C'
	Misplaced Verdict = 'M'
	Wrong     Verdict = 'W'
	Rank1     Verdict = '1'
	Rank2     Verdict = '2'
	Rank3     Verdict = '3'
	Rank4     Verdict = '4'
	Rank5     Verdict = '5'
	Defeat    Verdict = 'X' // 仅 wordle32 使用
)

const (
	blackSquare  = '\u2B1B'
	whiteSquare  = '\u2B1C'
	redSquare    = '\U0001F7E5'
	blueSquare   = '\U0001F7E6'
	orangeSquare = '\U0001F7E7'
	yellowSquare = '\U0001F7E8'
	greenSquare  = '\U0001F7E9'
	purpleSquare = '\U0001F7EA'
	brownSquare  = '\U0001F7EB'

	variationSelector = '\uFE0F'
	enclosingKeycap   = '\u20E3'
)

// 默认字形表。红色在 Heardle 中表示"跳过"，这里与其它中间色一起记为 M，
// 紫色来自 Nerdle。
var standardGlyphs = map[rune]Verdict{
	blackSquare:  Wrong,
	whiteSquare:  Wrong,
	redSquare:    Misplaced,
	orangeSquare: Misplaced,
	yellowSquare: Misplaced,
	purpleSquare: Misplaced,
	brownSquare:  Misplaced,
	blueSquare:   Correct,
	greenSquare:  Correct,
}

// globle：白 < 红 < 橙 < 黄 < 绿
var globleGlyphs = map[rune]Verdict{
	whiteSquare:  Wrong,
	redSquare:    Rank1,
	orangeSquare: Rank2,
	yellowSquare: Rank3,
	greenSquare:  Correct,
}

// globlec：黑 < 橙 < 黄 < 绿 < 蓝 < 紫 < 红
var globlecGlyphs = map[rune]Verdict{
	blackSquare:  Wrong,
	orangeSquare: Rank1,
	yellowSquare: Rank2,
	greenSquare:  Rank3,
	blueSquare:   Rank4,
	purpleSquare: Rank5,
	redSquare:    Correct,
}

// geo 每行末尾的方向箭头（以及胜利时的礼花）
var geoArrows = map[rune]struct{}{
	'\u27A1': {}, '\u2B05': {}, '\u2B06': {}, '\u2B07': {},
	'\u2196': {}, '\u2197': {}, '\u2198': {}, '\u2199': {},
	'\U0001F389': {},
}

func glyphTable(v Variant) map[rune]Verdict {
	switch v {
	case Globle:
		return globleGlyphs
	case GlobleC:
		return globlecGlyphs
	default:
		return standardGlyphs
	}
}

// DecodeGlyph 将单个字形按家族解码为判定码。
// 无法识别（包括 U+FE0F）时返回 false，由调用方决定丢弃或记录。
func DecodeGlyph(glyph rune, v Variant) (Verdict, bool) {
	verdict, ok := glyphTable(v)[glyph]
	return verdict, ok
}

// IsVariationSelector 是否为 emoji 变体选择符
func IsVariationSelector(r rune) bool {
	return r == variationSelector
}

// isGeoArrow geo 行尾的非判定字符
func isGeoArrow(r rune) bool {
	_, ok := geoArrows[r]
	return ok
}

// isLosingVerdict 出现即表示该行不是胜利行（读路径与 geo 规则共用）
func isLosingVerdict(r rune) bool {
	switch Verdict(r) {
	case Misplaced, Wrong, Rank1, Rank2, Rank3, Rank4, Rank5:
		return true
	}
	return false
}
