package api

import (
	"embed"
	"html/template"
	"strconv"
	"strings"

	"wordlearchive/internal/codec"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(
	template.New("pages").Funcs(template.FuncMap{
		"lines":   func(s string) []string { return strings.Split(s, "\n") },
		"glyphs":  renderGlyphs,
		"percent": func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) },
		"inc":     func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html"),
)

// renderGlyphs 把一行判定码还原为方块，供无剧透视图使用
func renderGlyphs(line, cssClass string, v codec.Variant) string {
	return codec.Render(codec.Pattern{line}, cssClass, v)
}

// Page 所有页面共用的字段
type Page struct {
	BasePath string
	Token    string
}

func (h *Handler) page() Page {
	return Page{BasePath: h.basePath}
}
