package exporter

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"wordlearchive/internal/archive"
	"wordlearchive/internal/model"
	"wordlearchive/internal/store"
)

// 工作表名称
const (
	PuzzlesSheet = "Puzzles"
	StatsSheet   = "Stats"
)

var puzzleHeaders = []any{"Date", "Site", "Variant", "Day", "Attempts", "Victory", "Pattern", "Solution", "Text"}

var statsHeaders = []any{"Subject", "Won", "Lost", "Percent won", "Average attempts", "Longest streak", "Current streak"}

// Exporter 归档导出器
type Exporter struct {
	store  *store.Store
	logger *zap.Logger
}

// NewExporter 创建导出器
func NewExporter(st *store.Store, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		store:  st,
		logger: logger.Named("exporter"),
	}
}

// ExportOptions 导出选项
type ExportOptions struct {
	// From/To 日期范围（YYYY-MM-DD，含端点），为空表示不限
	From string
	To   string
	// Progress 进度回调，可为空
	Progress func(ProgressEvent)
}

// Export 导出 Excel
func (e *Exporter) Export(opts ExportOptions) (*excelize.File, error) {
	progress := progressFunc(opts.Progress)
	progress.enter(stageLoadPuzzles)
	puzzles, err := e.store.ListPuzzles()
	if err != nil {
		return nil, fmt.Errorf("failed to list puzzles: %w", err)
	}
	puzzles = filterByDate(puzzles, opts.From, opts.To)

	progress.enter(stageLoadStats)
	stats, err := e.store.GetStats()
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	f, err := WriteWorkbook(puzzles, stats, opts.Progress)
	if err != nil {
		return nil, err
	}
	e.logger.Info("workbook exported", zap.Int("puzzles", len(puzzles)))
	return f, nil
}

func filterByDate(puzzles []model.SitePuzzle, from, to string) []model.SitePuzzle {
	if from == "" && to == "" {
		return puzzles
	}
	out := puzzles[:0:0]
	for _, p := range puzzles {
		// YYYY-MM-DD 可以直接按字符串比较
		if from != "" && p.Date < from {
			continue
		}
		if to != "" && p.Date > to {
			continue
		}
		out = append(out, p)
	}
	return out
}

// WriteWorkbook 生成包含 Puzzles 与 Stats 两个工作表的工作簿
func WriteWorkbook(puzzles []model.SitePuzzle, stats *model.ArchiveStats, progress func(ProgressEvent)) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), PuzzlesSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(StatsSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create stats sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create wrap style: %w", err)
	}

	report := progressFunc(progress)
	report.enter(stageWritePuzzles)
	if err := writePuzzlesSheet(f, puzzles, headerStyle, wrapStyle); err != nil {
		_ = f.Close()
		return nil, err
	}

	report.enter(stageWriteStats)
	if stats != nil {
		if err := writeStatsSheet(f, stats, headerStyle); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	report.enter(stageDone)
	return f, nil
}

func writePuzzlesSheet(f *excelize.File, puzzles []model.SitePuzzle, headerStyle, wrapStyle int) error {
	if err := writeRow(f, PuzzlesSheet, 1, puzzleHeaders); err != nil {
		return err
	}
	if err := f.SetRowStyle(PuzzlesSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, sp := range puzzles {
		part := archive.FromStored(sp)
		var attempts any = ""
		if sp.Attempts != nil {
			attempts = *sp.Attempts
		}
		row := []any{
			sp.Date,
			sp.Site.Name,
			string(sp.Site.Variant),
			sp.DayOrdinal,
			attempts,
			part.Won(),
			sp.Pattern,
			sp.Solution,
			part.Text(),
		}
		if err := writeRow(f, PuzzlesSheet, i+2, row); err != nil {
			return err
		}
	}

	if len(puzzles) > 0 {
		// Pattern/Solution/Text 三列多行文本
		last := fmt.Sprintf("I%d", len(puzzles)+1)
		if err := f.SetCellStyle(PuzzlesSheet, "G2", last, wrapStyle); err != nil {
			return fmt.Errorf("failed to style puzzle rows: %w", err)
		}
	}

	widths := map[string]float64{"A": 12, "B": 18, "C": 10, "D": 8, "E": 10, "F": 9, "G": 16, "H": 16, "I": 28}
	for col, w := range widths {
		if err := f.SetColWidth(PuzzlesSheet, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

func statsRow(subject string, st model.Stats) []any {
	var current any = ""
	if st.CurrentStreak != nil {
		current = *st.CurrentStreak
	}
	return []any{subject, st.Won, st.Lost, st.PercentWon(), st.AverageAttempts, st.LongestStreak, current}
}

func writeStatsSheet(f *excelize.File, stats *model.ArchiveStats, headerStyle int) error {
	if err := writeRow(f, StatsSheet, 1, statsHeaders); err != nil {
		return err
	}
	if err := f.SetRowStyle(StatsSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	rows := [][]any{statsRow("Global", stats.Global)}

	variants := make([]string, 0, len(stats.ByVariant))
	for v := range stats.ByVariant {
		variants = append(variants, v)
	}
	sort.Strings(variants)
	for _, v := range variants {
		rows = append(rows, statsRow("Variant: "+v, stats.ByVariant[v]))
	}
	for _, s := range stats.BySite {
		rows = append(rows, statsRow("Site: "+s.SiteName, s.Stats))
	}

	for i, row := range rows {
		if err := writeRow(f, StatsSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(StatsSheet, "A", "A", 28)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
