package codec

import (
	"fmt"
	"strings"
)

// Submission 用户提交的结果文本与答案记录
type Submission struct {
	Result   string `json:"result"`
	Solution string `json:"solution"`
}

// Record 校验通过后需要持久化的谜题记录，创建后不再修改
type Record struct {
	Head     string `json:"head"`
	Tail     string `json:"tail"`
	Pattern  string `json:"pattern"`
	Solution string `json:"solution"`
	Attempts *int   `json:"attempts,omitempty"`
	// RawPattern 原始结果块文本；历史数据中为空
	RawPattern *string `json:"rawPattern,omitempty"`
}

// Decode 完整解码流程：分块 → 组装 → 交叉校验。
// 返回的 Outcome 为合并后的结果（组合谜题）或唯一子块的结果。
// 未知或空的 v 按 Standard 处理。
func (c *Codec) Decode(sub Submission, v Variant) (Record, Outcome, error) {
	v = ParseVariant(string(v))
	blocks, err := Scan(sub.Result, v)
	if err != nil {
		return Record{}, Outcome{}, err
	}

	outcomes := make([]Outcome, 0, len(blocks))
	for _, b := range blocks {
		o, err := c.Assemble(b, v)
		if err != nil {
			return Record{}, Outcome{}, err
		}
		outcomes = append(outcomes, o)
	}

	return Validate(v, blocks, outcomes, sub.Solution)
}

// SolutionLines 答案记录去掉首尾空白后按行拆分
func SolutionLines(solution string) []string {
	return strings.Split(strings.TrimSpace(NormalizeNewlines(solution)), lineSeparator)
}

// Validate 比较结果块推导的期望行数与答案记录行数，一致时生成 Record。
// blocks 与 outcomes 一一对应。
func Validate(v Variant, blocks []Block, outcomes []Outcome, solution string) (Record, Outcome, error) {
	v = ParseVariant(string(v))
	if len(blocks) == 0 || len(blocks) != len(outcomes) {
		return Record{}, Outcome{}, noMatch()
	}

	solution = strings.TrimSpace(NormalizeNewlines(solution))
	obtained := len(strings.Split(solution, lineSeparator))

	combined := outcomes[0]
	if v == Standard {
		combined = Merge(outcomes)
	}

	if combined.ExpectedLines != nil && *combined.ExpectedLines != obtained {
		expected := *combined.ExpectedLines
		return Record{}, combined, lineCountMismatch(expected, obtained,
			mismatchReason(v, combined, outcomes, obtained))
	}

	patterns := make([]Pattern, 0, len(outcomes))
	raws := make([]string, 0, len(blocks))
	for i := range outcomes {
		patterns = append(patterns, outcomes[i].Pattern)
		raws = append(raws, blocks[i].Matched)
	}
	raw := strings.Join(raws, subPuzzleSeparator)

	rec := Record{
		Head:       blocks[0].Head,
		Tail:       blocks[len(blocks)-1].Tail,
		Pattern:    JoinSubPatterns(patterns),
		Solution:   solution,
		Attempts:   combined.Attempts,
		RawPattern: &raw,
	}
	if combined.Defeats > 0 {
		rec.Attempts = nil
	}
	return rec, combined, nil
}

func victoryWord(victory bool) string {
	if victory {
		return "victory"
	}
	return "defeat"
}

func mismatchReason(v Variant, combined Outcome, outcomes []Outcome, obtained int) string {
	expected := *combined.ExpectedLines
	switch {
	case v == Geo:
		return fmt.Sprintf("%d result lines, %s => expected %d solution lines but obtained %d",
			len(combined.Pattern), victoryWord(combined.Victory), expected, obtained)
	case v.singleRun():
		return fmt.Sprintf("%d guesses derived from result %q, %d solution lines; must be the same",
			expected, strings.Join(combined.Pattern, ""), obtained)
	}

	reason := fmt.Sprintf("expected %d, obtained %d solution lines", expected, obtained)
	if v == Standard && len(outcomes) > 1 {
		parts := make([]string, 0, len(outcomes))
		for i, o := range outcomes {
			state := "lost"
			if o.Victory {
				state = "won"
			}
			parts = append(parts, fmt.Sprintf("block %d: %d lines from guesses, %s", i+1, o.Lines, state))
		}
		reason += " (" + strings.Join(parts, "; ") + ")"
	}
	return reason
}
