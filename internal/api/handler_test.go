package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"wordlearchive/internal/codec"
	"wordlearchive/internal/config"
	"wordlearchive/internal/model"
	"wordlearchive/internal/store"
)

const (
	green  = "\U0001F7E9"
	yellow = "\U0001F7E8"
	orange = "\U0001F7E7"
	white  = "\u2B1C"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)

type testEnv struct {
	router *gin.Engine
	store  *store.Store
	cfg    *config.AppConfig
}

func newTestEnv(t *testing.T, mutate func(cfg *config.AppConfig)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	holder := config.NewHolder(filepath.Join(t.TempDir(), "config.toml"), cfg, nil)

	h := NewHandler(Options{
		Store:     st,
		Config:    holder,
		Logger:    zap.NewNop(),
		ExportDir: t.TempDir(),
		Now:       func() time.Time { return fixedNow },
	})
	r := gin.New()
	r.SetHTMLTemplate(h.Templates())
	r.Use(RequestLogger(zap.NewNop()))
	h.RegisterRoutes(r.Group(NormalizeBasePath(cfg.Server.BasePath)))

	return &testEnv{router: r, store: st, cfg: cfg}
}

func (e *testEnv) addSite(t *testing.T, name string, v codec.Variant) *model.Site {
	t.Helper()
	site := &model.Site{Name: name, URL: "https://example.org/" + name, CSSClass: name, Variant: v, Available: true}
	require.NoError(t, e.store.UpsertSite(site))
	return site
}

func (e *testEnv) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func document(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	return doc
}

func standardResult() string {
	return "Wordle 1,218 3/6\n\n" +
		yellow + white + white + white + white + "\n" +
		green + yellow + white + white + white + "\n" +
		green + green + green + green + green + "\n"
}

func submission(siteID int64, result, solution string) url.Values {
	return url.Values{
		"site":        {itoa(siteID)},
		"day-ordinal": {"1218"},
		"result":      {result},
		"solution":    {solution},
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func TestRedirectToday(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/", "/wordle"} {
		w := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/wordle/2026-10-19", w.Header().Get("Location"), path)
	}
}

func TestRedirectToday_BasePath(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.AppConfig) { cfg.Server.BasePath = "archive" })

	w := env.do(t, http.MethodGet, "/archive/wordle", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/archive/wordle/2026-10-19", w.Header().Get("Location"))
}

func TestNormalizeBasePath(t *testing.T) {
	assert.Equal(t, "/", NormalizeBasePath(""))
	assert.Equal(t, "/", NormalizeBasePath("/"))
	assert.Equal(t, "/a/b/", NormalizeBasePath("a/b"))
	assert.Equal(t, "/a/", NormalizeBasePath(" /a/ "))
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/stats?format=json", nil)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/stats?format=json", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestPopulate_StoresStandardPuzzle(t *testing.T) {
	env := newTestEnv(t, nil)
	site := env.addSite(t, "wordle", codec.Standard)

	w := env.do(t, http.MethodPost, "/populate?format=json", submission(site.ID, standardResult(), "crane\nslate\nstare\n"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Puzzle model.Puzzle `json:"puzzle"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MWWWW\nCMWWW\nCCCCC", resp.Puzzle.Pattern)
	require.NotNil(t, resp.Puzzle.Attempts)
	assert.Equal(t, 3, *resp.Puzzle.Attempts)
	assert.Equal(t, "2026-10-19", resp.Puzzle.Date)
	assert.Equal(t, 1218, resp.Puzzle.DayOrdinal)
	assert.Equal(t, "Wordle 1,218 3/6\n\n", resp.Puzzle.Head)

	stored, err := env.store.GetPuzzleByID(resp.Puzzle.ID)
	require.NoError(t, err)
	assert.Equal(t, "crane\nslate\nstare", stored.Solution)

	// 当天页面
	w = env.do(t, http.MethodGet, "/wordle/2026-10-19", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)
	assert.Equal(t, 1, doc.Find("section.puzzle").Length())
	assert.Equal(t, "3", doc.Find("section.puzzle .attempts").Text())
	assert.Contains(t, doc.Find("section.puzzle pre.text").Text(), green+green+green+green+green)
}

func TestPopulate_HTMLSuccessPage(t *testing.T) {
	env := newTestEnv(t, nil)
	site := env.addSite(t, "wordle", codec.Standard)

	w := env.do(t, http.MethodPost, "/populate", submission(site.ID, standardResult(), "crane\nslate\nstare"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	doc := document(t, w)
	assert.Equal(t, "3", doc.Find("p.stored .attempts").Text())
}

func TestPopulate_GlobleSite(t *testing.T) {
	env := newTestEnv(t, nil)
	site := env.addSite(t, "globle", codec.Globle)

	result := "Globle\n" + orange + yellow + "\n" + green + "\n#globle"
	w := env.do(t, http.MethodPost, "/populate?format=json", submission(site.ID, result, "france\nspain\nportugal"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Puzzle model.Puzzle `json:"puzzle"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2\n3\nC", resp.Puzzle.Pattern)
	require.NotNil(t, resp.Puzzle.Attempts)
	assert.Equal(t, 3, *resp.Puzzle.Attempts)
}

func TestPopulate_Rejections(t *testing.T) {
	env := newTestEnv(t, nil)
	site := env.addSite(t, "wordle", codec.Standard)

	cases := []struct {
		name   string
		form   url.Values
		reason string
	}{
		{
			name:   "missing site",
			form:   url.Values{"result": {"x"}, "solution": {"y"}},
			reason: `missing field "site"`,
		},
		{
			name:   "invalid site",
			form:   url.Values{"site": {"abc"}},
			reason: `invalid value for field "site"`,
		},
		{
			name:   "unknown site",
			form:   url.Values{"site": {"999"}, "result": {"x"}, "solution": {"y"}},
			reason: "site 999 not found",
		},
		{
			name:   "invalid day ordinal",
			form:   url.Values{"site": {itoa(site.ID)}, "day-ordinal": {"x"}},
			reason: `invalid value for field "day-ordinal"`,
		},
		{
			name:   "missing result",
			form:   url.Values{"site": {itoa(site.ID)}, "solution": {"y"}},
			reason: `missing field "result"`,
		},
		{
			name:   "no result block",
			form:   submission(site.ID, "I forgot to paste", "crane"),
			reason: "failed to decode guesses",
		},
		{
			name:   "line count mismatch",
			form:   submission(site.ID, standardResult(), "crane\nstare"),
			reason: "expected 3, obtained 2 solution lines",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/populate?format=json", tc.form)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.reason, resp["error"])
		})
	}

	// 拒绝的提交不会写入
	_, err := env.store.GetMostRecentPuzzleDate()
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPopulate_RejectionHTML(t *testing.T) {
	env := newTestEnv(t, nil)
	site := env.addSite(t, "wordle", codec.Standard)

	w := env.do(t, http.MethodPost, "/populate", submission(site.ID, standardResult(), "crane"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	doc := document(t, w)
	assert.Equal(t, "expected 3, obtained 1 solution lines", doc.Find("p.reason").Text())
}

func TestPopulate_TokenGate(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.AppConfig) { cfg.Archive.WriteTokens = []string{"alpha"} })
	site := env.addSite(t, "wordle", codec.Standard)

	w := env.do(t, http.MethodGet, "/populate", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/populate?token=beta", submission(site.ID, standardResult(), "a\nb\nc"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/populate?token=alpha", submission(site.ID, standardResult(), "a\nb\nc"))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestGetPopulate_ListsSites(t *testing.T) {
	env := newTestEnv(t, nil)
	wordle := env.addSite(t, "wordle", codec.Standard)
	env.addSite(t, "worldle", codec.Geo)

	w := env.do(t, http.MethodPost, "/populate", submission(wordle.ID, standardResult(), "a\nb\nc"))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/populate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)
	assert.Equal(t, 2, doc.Find("select[name=site] option").Length())
	assert.Equal(t, 1, doc.Find("select[name=site] option.solved").Length())

	w = env.do(t, http.MethodGet, "/populate?format=json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Today string             `json:"today"`
		Sites []model.SiteStatus `json:"sites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-10-19", resp.Today)
	require.Len(t, resp.Sites, 2)
	assert.True(t, resp.Sites[0].Solved)
	assert.False(t, resp.Sites[1].Solved)
}

func storeDirect(t *testing.T, env *testEnv, siteID int64, date string) *model.Puzzle {
	t.Helper()
	three := 3
	p := &model.Puzzle{
		SiteID:     siteID,
		Date:       date,
		DayOrdinal: 7,
		Head:       "Wordle 7 3/6\n\n",
		Pattern:    "MWW\nCMW\nCCC",
		Solution:   "crane\nslate\nstare",
		Attempts:   &three,
	}
	require.NoError(t, env.store.StorePuzzle(p))
	return p
}

func TestSpoilerProtection(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.AppConfig) {
		cfg.Archive.SpoilerProtectionDays = 1
		cfg.Archive.WriteTokens = []string{"alpha"}
	})
	site := env.addSite(t, "wordle", codec.Standard)
	storeDirect(t, env, site.ID, "2026-10-19")
	storeDirect(t, env, site.ID, "2026-10-10")

	// 当天受保护
	doc := document(t, env.do(t, http.MethodGet, "/wordle/2026-10-19?spoil=true", nil))
	assert.Equal(t, 0, doc.Find("td.solution").Length())
	assert.Equal(t, 0, doc.Find("a.spoil").Length())

	// token 可以解除保护
	doc = document(t, env.do(t, http.MethodGet, "/wordle/2026-10-19?spoil=true&token=alpha", nil))
	assert.Equal(t, 3, doc.Find("td.solution").Length())
	assert.Equal(t, "stare", doc.Find("td.solution").Last().Text())

	// 已过保护期
	doc = document(t, env.do(t, http.MethodGet, "/wordle/2026-10-10", nil))
	assert.Equal(t, 1, doc.Find("a.spoil").Length())
	doc = document(t, env.do(t, http.MethodGet, "/wordle/2026-10-10?spoil=true", nil))
	assert.Equal(t, 3, doc.Find("td.solution").Length())
}

func TestPuzzlesJSON_RedactsSolutions(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.AppConfig) { cfg.Archive.SpoilerProtectionDays = -1 })
	site := env.addSite(t, "wordle", codec.Standard)
	storeDirect(t, env, site.ID, "2026-01-01")

	w := env.do(t, http.MethodGet, "/wordle/2026-01-01?format=json&spoil=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp puzzlesJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.AllowSpoiling)
	require.Len(t, resp.Puzzles, 1)
	sub := resp.Puzzles[0].SubPuzzles[0]
	assert.Empty(t, sub.Solution)
	assert.Equal(t, "MWW", sub.GuessLines[0].Pattern)
	assert.Empty(t, sub.GuessLines[0].Solution)
	assert.Contains(t, resp.Puzzles[0].Text, "Wordle 7 3/6")
}

func TestGetPuzzle(t *testing.T) {
	env := newTestEnv(t, nil)
	site := env.addSite(t, "wordle", codec.Standard)
	p := storeDirect(t, env, site.ID, "2026-10-01")

	w := env.do(t, http.MethodGet, "/puzzle/"+itoa(p.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)
	sel := doc.Find("section.puzzle")
	assert.Equal(t, 1, sel.Length())
	id, _ := sel.Attr("data-id")
	assert.Equal(t, itoa(p.ID), id)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/puzzle/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/puzzle/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/wordle/not-a-date", nil).Code)
}

func TestLatest(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/wordle/latest", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1, document(t, w).Find("p.empty").Length())

	site := env.addSite(t, "wordle", codec.Standard)
	storeDirect(t, env, site.ID, "2026-09-30")
	w = env.do(t, http.MethodGet, "/wordle/latest?format=json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp puzzlesJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-09-30", resp.Date)
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t, nil)
	site := env.addSite(t, "wordle", codec.Standard)
	storeDirect(t, env, site.ID, "2026-10-01")

	w := env.do(t, http.MethodGet, "/stats?format=json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.ArchiveStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Global.Won)
	assert.Equal(t, 3.0, stats.Global.AverageAttempts)

	w = env.do(t, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)
	assert.Equal(t, "100.0", doc.Find("tr.global td").Eq(3).Text())
	assert.Equal(t, 1, doc.Find("tr.site").Length())
}

func TestExport(t *testing.T) {
	env := newTestEnv(t, nil)
	site := env.addSite(t, "wordle", codec.Standard)
	storeDirect(t, env, site.ID, "2026-10-01")

	w := env.do(t, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "wordle-archive-2026-10-19.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Puzzles")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestExport_DownloadToken(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/export", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token       string `json:"token"`
		DownloadURL string `json:"downloadUrl"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	w = env.do(t, http.MethodGet, resp.DownloadURL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotZero(t, w.Body.Len())

	// 一次性链接
	w = env.do(t, http.MethodGet, resp.DownloadURL, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExport_RequiresTokenWhenConfigured(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.AppConfig) { cfg.Archive.WriteTokens = []string{"alpha"} })

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/export", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/export?token=alpha", nil).Code)
}
