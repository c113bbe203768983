package codec

import "strings"

// Variant 谜题家族（决定字形表、分块语法、胜负与尝试次数规则）
type Variant string

const (
	Standard Variant = "standard" // 多行方块，支持多个子谜题拼接
	Geo      Variant = "geo"      // 每行以方向箭头结尾
	Audio    Variant = "audio"    // 单行方块，遇到第一个 C 即结束
	Globle   Variant = "globle"   // 距离等级，允许换行
	GlobleC  Variant = "globlec"  // 与 globle 颜色等级相反
	Wordle32 Variant = "wordle32" // 键帽数字网格
)

// ParseVariant 将站点配置中的 variant 字符串映射为家族
// 未知或空值一律按 Standard 处理
func ParseVariant(s string) Variant {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case Geo, Audio, Globle, GlobleC, Wordle32:
		return v
	default:
		return Standard
	}
}

// String 返回家族名称
func (v Variant) String() string {
	if v == "" {
		return string(Standard)
	}
	return string(v)
}

// singleRun 是否为单行连续方块家族（audio / globle / globlec）
func (v Variant) singleRun() bool {
	switch v {
	case Audio, Globle, GlobleC:
		return true
	}
	return false
}
