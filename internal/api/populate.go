package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wordlearchive/internal/codec"
	"wordlearchive/internal/metrics"
	"wordlearchive/internal/model"
	"wordlearchive/internal/store"
)

type populatePage struct {
	Page
	Today string
	Sites []model.SiteStatus
}

type populateSuccessPage struct {
	Page
	Puzzle *model.Puzzle
}

// GetPopulate 提交表单：可提交的站点及当天是否已提交
func (h *Handler) GetPopulate(c *gin.Context) {
	today := h.today()
	sites, err := h.store.GetSiteStatuses(today)
	if err != nil {
		h.renderStoreError(c, err, "sites")
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"today": today, "sites": sites})
		return
	}

	pg := h.page()
	pg.Token = c.Query("token")
	c.HTML(http.StatusOK, "populate.html", populatePage{Page: pg, Today: today, Sites: sites})
}

// PostPopulate 解码并保存一次提交
func (h *Handler) PostPopulate(c *gin.Context) {
	siteStr, ok := c.GetPostForm("site")
	if !ok {
		h.renderError(c, http.StatusBadRequest, `missing field "site"`)
		return
	}
	siteID, err := strconv.ParseInt(strings.TrimSpace(siteStr), 10, 64)
	if err != nil {
		h.renderError(c, http.StatusBadRequest, `invalid value for field "site"`)
		return
	}

	dayOrdinal, err := strconv.Atoi(strings.TrimSpace(c.DefaultPostForm("day-ordinal", "0")))
	if err != nil {
		h.renderError(c, http.StatusBadRequest, `invalid value for field "day-ordinal"`)
		return
	}

	site, err := h.store.GetSite(siteID)
	if errors.Is(err, store.ErrNotFound) {
		h.renderError(c, http.StatusBadRequest, fmt.Sprintf("site %d not found", siteID))
		return
	}
	if err != nil {
		h.renderStoreError(c, err, "site")
		return
	}

	result, ok := c.GetPostForm("result")
	if !ok {
		h.renderError(c, http.StatusBadRequest, `missing field "result"`)
		return
	}
	solution, ok := c.GetPostForm("solution")
	if !ok {
		h.renderError(c, http.StatusBadRequest, `missing field "solution"`)
		return
	}

	variant := site.Variant.String()
	start := time.Now()
	rec, outcome, err := h.codec.Decode(codec.Submission{
		Result:   codec.NormalizeNewlines(result),
		Solution: codec.NormalizeNewlines(solution),
	}, site.Variant)
	metrics.ObserveDecode(time.Since(start))
	metrics.AddUnrecognized(variant, len(outcome.Unrecognized))

	if err != nil {
		var rej *codec.Rejection
		if errors.As(err, &rej) {
			metrics.ObserveSubmission(variant, metrics.OutcomeRejected)
			metrics.ObserveRejection(variant, string(rej.Kind))
			h.logger.Info("submission rejected",
				zap.Int64("site_id", site.ID),
				zap.String("variant", variant),
				zap.String("kind", string(rej.Kind)),
				zap.String("reason", rej.Reason),
			)
			h.renderError(c, http.StatusBadRequest, rej.Error())
			return
		}
		metrics.ObserveSubmission(variant, metrics.OutcomeError)
		h.logger.Error("decode failed", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	puzzle := model.NewPuzzle(site.ID, h.today(), dayOrdinal, rec)
	if err := h.store.StorePuzzle(puzzle); err != nil {
		metrics.ObserveSubmission(variant, metrics.OutcomeError)
		h.renderStoreError(c, err, "puzzle")
		return
	}
	metrics.ObserveSubmission(variant, metrics.OutcomeStored)
	h.logger.Info("puzzle stored",
		zap.Int64("puzzle_id", puzzle.ID),
		zap.Int64("site_id", site.ID),
		zap.String("variant", variant),
		zap.Bool("victory", puzzle.Attempts != nil),
	)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"puzzle": puzzle, "outcome": outcome})
		return
	}
	pg := h.page()
	pg.Token = c.Query("token")
	c.HTML(http.StatusOK, "populate-success.html", populateSuccessPage{Page: pg, Puzzle: puzzle})
}
