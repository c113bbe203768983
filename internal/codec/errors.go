package codec

import "fmt"

// RejectKind 拒绝原因类别
type RejectKind string

const (
	// RejectNoMatch 在提交文本中找不到结果块
	RejectNoMatch RejectKind = "no_match"
	// RejectLineCount 结果块推导的行数与答案行数不一致
	RejectLineCount RejectKind = "line_count"
	// RejectBadGlyph wordle32 结果块中出现语法外字符
	RejectBadGlyph RejectKind = "bad_glyph"
)

const reasonNoMatch = "failed to decode guesses"

// Rejection 单次提交的用户输入错误，不可重试
type Rejection struct {
	Kind   RejectKind
	Reason string

	// Expected/Obtained 仅在 RejectLineCount 时有效
	Expected int
	Obtained int

	// Glyph 仅在 RejectBadGlyph 时有效
	Glyph rune
}

func (r *Rejection) Error() string {
	if r.Reason != "" {
		return r.Reason
	}
	return string(r.Kind)
}

func noMatch() *Rejection {
	return &Rejection{Kind: RejectNoMatch, Reason: reasonNoMatch}
}

func badGlyph(r rune) *Rejection {
	return &Rejection{
		Kind:   RejectBadGlyph,
		Reason: fmt.Sprintf("unknown result character %c (U+%04X)", r, r),
		Glyph:  r,
	}
}

func lineCountMismatch(expected, obtained int, reason string) *Rejection {
	return &Rejection{
		Kind:     RejectLineCount,
		Reason:   reason,
		Expected: expected,
		Obtained: obtained,
	}
}
