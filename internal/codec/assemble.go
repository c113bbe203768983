package codec

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Codec 谜题结果编解码器。
// 除日志外无共享可变状态，可在多个请求中并发使用。
type Codec struct {
	logger *zap.Logger
}

// New 创建编解码器，logger 为 nil 时不输出诊断
func New(logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{logger: logger.Named("codec")}
}

// Outcome 单个结果块（或合并后的组合谜题）的解码结果
type Outcome struct {
	Pattern Pattern `json:"pattern,omitempty"`
	Victory bool    `json:"victory"`

	// Attempts 仅在胜利时存在
	Attempts *int `json:"attempts,omitempty"`
	// ExpectedLines 答案记录应有的行数；wordle32 失败时不存在
	ExpectedLines *int `json:"expectedLines,omitempty"`
	// Lines 由猜测推导出的行数，胜利时等于 Attempts
	Lines int `json:"lines"`
	// Defeats wordle32 中未解出的格子组数
	Defeats int `json:"defeats,omitempty"`

	// Unrecognized 被忽略的字形，按出现顺序
	Unrecognized []rune `json:"-"`
}

func intPtr(n int) *int {
	return &n
}

// settle 根据胜利位置（1 起，0 表示失败）补全 Attempts/ExpectedLines。
// 失败时答案记录需要多出一行（最后一行是未猜出的正确答案）。
func (o *Outcome) settle(victoryAt int) {
	if victoryAt > 0 {
		o.Victory = true
		o.Lines = victoryAt
		o.Attempts = intPtr(victoryAt)
		o.ExpectedLines = intPtr(victoryAt)
		return
	}
	o.Victory = false
	o.Lines = len(o.Pattern)
	o.Attempts = nil
	o.ExpectedLines = intPtr(o.Lines + 1)
}

// Assemble 将结果块解码为规范 pattern，并按家族规则计算胜负与尝试次数
func (c *Codec) Assemble(b Block, v Variant) (Outcome, error) {
	switch v {
	case Geo:
		return c.assembleGeo(b), nil
	case Audio, Globle, GlobleC:
		return c.assembleRun(b, v), nil
	case Wordle32:
		return assembleWordle32(b)
	default:
		return c.assembleStandard(b), nil
	}
}

func (c *Codec) assembleStandard(b Block) Outcome {
	var out Outcome
	for _, line := range strings.Split(NormalizeNewlines(b.Matched), lineSeparator) {
		out.Pattern = append(out.Pattern, c.decodeLine(line, Standard, &out))
	}

	victoryAt := 0
	for i, line := range out.Pattern {
		if StandardVictory(line) {
			victoryAt = i + 1
			break
		}
	}
	out.settle(victoryAt)
	return out
}

func (c *Codec) assembleGeo(b Block) Outcome {
	var out Outcome
	for _, line := range strings.Split(NormalizeNewlines(b.Matched), lineSeparator) {
		out.Pattern = append(out.Pattern, c.decodeLine(line, Geo, &out))
	}

	// 只看最后一行：至少一个 C，且没有 M/W/1..5
	last := out.Pattern[len(out.Pattern)-1]
	victoryAt := 0
	if strings.ContainsRune(last, rune(Correct)) && IsVictoryLine(last) {
		victoryAt = len(out.Pattern)
	}
	out.settle(victoryAt)
	return out
}

// assembleRun 单行家族：每个方块是一次猜测，第一个 C 之后的方块不是猜测
func (c *Codec) assembleRun(b Block, v Variant) Outcome {
	var out Outcome
	for _, r := range b.Matched {
		if IsVariationSelector(r) || unicode.IsSpace(r) {
			continue
		}
		verdict, ok := DecodeGlyph(r, v)
		if !ok {
			c.unrecognized(r, v, &out)
			continue
		}
		out.Pattern = append(out.Pattern, string(verdict))
		if verdict == Correct {
			break
		}
	}

	victoryAt := 0
	if n := len(out.Pattern); n > 0 && out.Pattern[n-1] == string(Correct) {
		victoryAt = n
	}
	out.settle(victoryAt)
	return out
}

// assembleWordle32 键帽数字网格是封闭语法，任何语法外字符都直接拒绝
func assembleWordle32(b Block) (Outcome, error) {
	var out Outcome
	for _, line := range strings.Split(NormalizeNewlines(b.Matched), lineSeparator) {
		var sb strings.Builder
		for _, r := range line {
			switch {
			case r >= '0' && r <= '9', r == ' ':
				sb.WriteRune(r)
			case r == redSquare:
				sb.WriteByte(byte(Defeat))
			case r == variationSelector, r == enclosingKeycap:
			default:
				return Outcome{}, badGlyph(r)
			}
		}
		out.Pattern = append(out.Pattern, sb.String())
	}

	out.Defeats = countDefeatGroups(out.Pattern)
	if out.Defeats == 0 {
		out.settle(len(out.Pattern))
		return out, nil
	}
	// 格子网格不记录失败时的猜测位置，不做行数校验
	out.Lines = len(out.Pattern)
	return out, nil
}

func countDefeatGroups(p Pattern) int {
	n := 0
	for _, line := range p {
		n += strings.Count(line, string(Defeat))
	}
	return n / 2
}

func (c *Codec) decodeLine(line string, v Variant, out *Outcome) string {
	var sb strings.Builder
	for _, r := range line {
		if IsVariationSelector(r) {
			continue
		}
		if verdict, ok := DecodeGlyph(r, v); ok {
			sb.WriteByte(byte(verdict))
			continue
		}
		if v == Geo && isGeoArrow(r) {
			sb.WriteRune(r)
			continue
		}
		c.unrecognized(r, v, out)
	}
	return sb.String()
}

func (c *Codec) unrecognized(r rune, v Variant, out *Outcome) {
	out.Unrecognized = append(out.Unrecognized, r)
	c.logger.Warn("unexpected result character; ignoring",
		zap.String("glyph", string(r)),
		zap.String("codepoint", fmt.Sprintf("U+%04X", r)),
		zap.Stringer("variant", v),
	)
}

// Merge 合并组合谜题（多个 Standard 子块）的结果。
// 全部胜利时尝试次数取最大值；任一失败则整体失败，
// 期望行数为各子块最大行数，再为每个失败子块加一行。
// 合并结果不包含 Pattern。
func Merge(outcomes []Outcome) Outcome {
	var merged Outcome
	if len(outcomes) == 0 {
		return merged
	}

	maxLines, maxAttempts, lost := 0, 0, 0
	for _, o := range outcomes {
		maxLines = max(maxLines, o.Lines)
		if o.Victory && o.Attempts != nil {
			maxAttempts = max(maxAttempts, *o.Attempts)
		} else {
			lost++
		}
		merged.Unrecognized = append(merged.Unrecognized, o.Unrecognized...)
	}

	merged.Lines = maxLines
	merged.ExpectedLines = intPtr(maxLines + lost)
	if lost == 0 {
		merged.Victory = true
		merged.Attempts = intPtr(maxAttempts)
	}
	return merged
}
