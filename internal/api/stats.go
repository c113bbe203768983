package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"wordlearchive/internal/model"
)

type variantStats struct {
	Name  string
	Stats model.Stats
}

type statsPage struct {
	Page
	Stats    *model.ArchiveStats
	Variants []variantStats
}

// GetStats 胜负统计
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.store.GetStats()
	if err != nil {
		h.renderStoreError(c, err, "stats")
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, stats)
		return
	}

	variants := make([]variantStats, 0, len(stats.ByVariant))
	for name, st := range stats.ByVariant {
		variants = append(variants, variantStats{Name: name, Stats: st})
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].Name < variants[j].Name })

	c.HTML(http.StatusOK, "stats.html", statsPage{Page: h.page(), Stats: stats, Variants: variants})
}
