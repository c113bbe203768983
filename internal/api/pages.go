package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wordlearchive/internal/archive"
	"wordlearchive/internal/model"
	"wordlearchive/internal/store"
)

// latestDate /wordle/latest 显示最近有提交的一天
const latestDate = "latest"

type puzzlesPage struct {
	Page
	Date          string
	Puzzles       []archive.PuzzlePart
	AllowSpoiling bool
	Spoil         bool
}

// puzzleJSON JSON 输出附带分享文本
type puzzleJSON struct {
	archive.PuzzlePart
	Text string `json:"text"`
}

type puzzlesJSON struct {
	Date          string       `json:"date,omitempty"`
	AllowSpoiling bool         `json:"allowSpoiling"`
	Spoil         bool         `json:"spoil"`
	Puzzles       []puzzleJSON `json:"puzzles"`
}

// RedirectToday 303 跳转到当天页面
func (h *Handler) RedirectToday(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, h.basePath+"wordle/"+h.today())
}

// GetPuzzlesOnDate 某天的全部谜题
func (h *Handler) GetPuzzlesOnDate(c *gin.Context) {
	dateStr := c.Param("date")
	if dateStr == latestDate {
		latest, err := h.store.GetMostRecentPuzzleDate()
		if errors.Is(err, store.ErrNotFound) {
			if wantsJSON(c) {
				c.JSON(http.StatusNotFound, gin.H{"error": "archive is empty"})
				return
			}
			c.HTML(http.StatusNotFound, "no-puzzles.html", h.page())
			return
		}
		if err != nil {
			h.renderStoreError(c, err, "latest date")
			return
		}
		dateStr = latest
	}

	date, err := archive.ParseDate(dateStr)
	if err != nil {
		h.renderError(c, http.StatusNotFound, "page not found")
		return
	}

	puzzles, err := h.store.GetPuzzlesOnDate(dateStr)
	if err != nil {
		h.renderStoreError(c, err, "puzzles")
		return
	}
	h.renderPuzzles(c, date, dateStr, puzzles)
}

// GetPuzzle 单个谜题
func (h *Handler) GetPuzzle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.renderError(c, http.StatusNotFound, "page not found")
		return
	}

	sp, err := h.store.GetPuzzleByID(id)
	if err != nil {
		h.renderStoreError(c, err, "puzzle")
		return
	}
	date, err := archive.ParseDate(sp.Date)
	if err != nil {
		h.renderStoreError(c, err, "puzzle date")
		return
	}
	h.renderPuzzles(c, date, "", []model.SitePuzzle{*sp})
}

// spoilState 是否允许以及是否展示答案；没有 token 时按保护期判断
func (h *Handler) spoilState(c *gin.Context, date time.Time) (allow, spoil bool) {
	days := h.config.Get().Archive.SpoilerProtectionDays
	allow = archive.AllowSpoiling(date, h.now(), days) || h.hasValidToken(c, false)
	spoil, _ = strconv.ParseBool(c.Query("spoil"))
	return allow, allow && spoil
}

func (h *Handler) renderPuzzles(c *gin.Context, date time.Time, dateStr string, stored []model.SitePuzzle) {
	allow, spoil := h.spoilState(c, date)
	parts := archive.FromStoredList(stored)

	if wantsJSON(c) {
		out := puzzlesJSON{Date: dateStr, AllowSpoiling: allow, Spoil: spoil, Puzzles: make([]puzzleJSON, 0, len(parts))}
		for _, p := range parts {
			text := p.Text()
			if !spoil {
				p = redact(p)
			}
			out.Puzzles = append(out.Puzzles, puzzleJSON{PuzzlePart: p, Text: text})
		}
		c.JSON(http.StatusOK, out)
		return
	}

	pg := h.page()
	if h.hasValidToken(c, false) {
		pg.Token = c.Query("token")
	}
	c.HTML(http.StatusOK, "puzzles.html", puzzlesPage{
		Page:          pg,
		Date:          dateStr,
		Puzzles:       parts,
		AllowSpoiling: allow,
		Spoil:         spoil,
	})
}

// redact 去掉答案，只保留判定码
func redact(p archive.PuzzlePart) archive.PuzzlePart {
	subs := make([]archive.SubPuzzle, len(p.SubPuzzles))
	for i, sub := range p.SubPuzzles {
		sub.Solution = ""
		sub.SolutionLines = nil
		guesses := make([]archive.GuessLine, len(sub.GuessLines))
		for j, g := range sub.GuessLines {
			guesses[j] = archive.GuessLine{Pattern: g.Pattern}
		}
		sub.GuessLines = guesses
		subs[i] = sub
	}
	p.SubPuzzles = subs
	return p
}
