package codec

import (
	"regexp"
	"strings"
)

// 方块：黑、白、[红 蓝 橙 黄 绿 紫 棕]
const squareClass = `[\x{2B1B}\x{2B1C}\x{1F7E5}-\x{1F7EB}]`

// 箭头：右、[左 上 下]、[左上 右上 右下 左下]、礼花
const arrowClass = `[\x{27A1}\x{2B05}-\x{2B07}\x{2196}-\x{2199}\x{1F389}]`

// 方块之间夹杂的其它符号（emoji、肤色修饰、变体选择符、ZWJ）仍属于同一个块，
// 解码时忽略并记录
const strayClass = `[\p{So}\p{Sk}\x{FE0F}\x{200D}]`

// squareRun 以方块开头和结尾的一段，不跨行
const squareRun = squareClass + `(?:` + strayClass + `*` + squareClass + `)*\x{FE0F}?`

// 键帽数字两个一组，或两个红色方块（未解出）
const wordle32Group = `(?:[0-9]\x{FE0F}\x{20E3}[0-9]\x{FE0F}\x{20E3}|\x{1F7E5}\x{1F7E5})`

var (
	standardBlockRE = regexp.MustCompile(
		squareRun + `(?:\r?\n` + squareRun + `)*`,
	)

	geoBlockRE = regexp.MustCompile(
		squareClass + `+` + arrowClass + `\x{FE0F}?` +
			`(?:\r?\n` + squareClass + `+` + arrowClass + `\x{FE0F}?)*`,
	)

	audioBlockRE = regexp.MustCompile(squareRun)

	// globle 允许方块之间换行
	globleBlockRE = regexp.MustCompile(
		squareClass + `(?:(?:\s|` + strayClass + `)*` + squareClass + `)*\x{FE0F}?\s*`,
	)

	wordle32RowRE = wordle32Group + `(?:[ ]` + wordle32Group + `){3}`

	wordle32BlockRE = regexp.MustCompile(
		wordle32RowRE + `(?:\r?\n` + wordle32RowRE + `)*`,
	)
)

// Block 提交文本中识别出的一个结果块。
// Head/Tail 原样保留，展示时需要还原用户的附加说明。
type Block struct {
	Head    string `json:"head"`
	Matched string `json:"matched"`
	Tail    string `json:"tail"`
}

// NormalizeNewlines 去除所有 CR
func NormalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}

func blockRE(v Variant) *regexp.Regexp {
	switch v {
	case Geo:
		return geoBlockRE
	case Audio:
		return audioBlockRE
	case Globle, GlobleC:
		return globleBlockRE
	case Wordle32:
		return wordle32BlockRE
	default:
		return standardBlockRE
	}
}

// Scan 在文本中定位结果块。
// Standard 返回所有不重叠的匹配（组合谜题），其它家族只取第一个匹配。
// 未找到时返回 *Rejection（RejectNoMatch）。
func Scan(text string, v Variant) ([]Block, error) {
	v = ParseVariant(string(v))
	text = NormalizeNewlines(text)
	re := blockRE(v)

	var spans [][]int
	if v == Standard {
		spans = re.FindAllStringIndex(text, -1)
	} else if loc := re.FindStringIndex(text); loc != nil {
		spans = [][]int{loc}
	}
	if len(spans) == 0 {
		return nil, noMatch()
	}

	blocks := make([]Block, 0, len(spans))
	for _, span := range spans {
		blocks = append(blocks, Block{
			Head:    text[:span[0]],
			Matched: text[span[0]:span[1]],
			Tail:    text[span[1]:],
		})
	}
	return blocks, nil
}
