package codec

import "strings"

const (
	lineSeparator      = "\n"
	subPuzzleSeparator = "\n\n"
)

// Pattern 规范化后的猜测图案，每个元素为一行判定码
type Pattern []string

// ParsePattern 解析单个子谜题的存储格式
func ParsePattern(s string) Pattern {
	return Pattern(strings.Split(s, lineSeparator))
}

// String 返回持久化格式（行之间以 \n 分隔）
func (p Pattern) String() string {
	return strings.Join(p, lineSeparator)
}

// SplitSubPatterns 将存储的 pattern 拆分为各子谜题
func SplitSubPatterns(stored string) []Pattern {
	parts := strings.Split(stored, subPuzzleSeparator)
	out := make([]Pattern, 0, len(parts))
	for _, part := range parts {
		out = append(out, ParsePattern(part))
	}
	return out
}

// JoinSubPatterns 合并多个子谜题为存储格式
func JoinSubPatterns(patterns []Pattern) string {
	parts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, subPuzzleSeparator)
}

// StandardVictory Standard 家族的胜利行：非空且全部为 C
func StandardVictory(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if Verdict(r) != Correct {
			return false
		}
	}
	return true
}

// IsVictoryLine 展示时判断某行是否为胜利行：不含 M/W/1..5
func IsVictoryLine(line string) bool {
	for _, r := range line {
		if isLosingVerdict(r) {
			return false
		}
	}
	return true
}

// AttemptsFromLastLine 根据存储 pattern 最后一个子谜题的最后一行推算尝试次数。
// 历史数据只可能来自 Standard 家族，因此只使用 Standard 规则。
func AttemptsFromLastLine(stored string) *int {
	stored = strings.TrimRight(stored, lineSeparator)
	if stored == "" {
		return nil
	}
	subs := SplitSubPatterns(stored)
	last := subs[len(subs)-1]
	if !StandardVictory(last[len(last)-1]) {
		return nil
	}
	n := len(last)
	return &n
}
