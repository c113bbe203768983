package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wordlearchive/internal/archive"
	"wordlearchive/internal/exporter"
)

var (
	exportOut  string
	exportFrom string
	exportTo   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export puzzles and statistics to an Excel workbook",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "wordlearchive.xlsx", "output file")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last date (YYYY-MM-DD)")
}

func runExport(cmd *cobra.Command, args []string) error {
	for _, d := range []string{exportFrom, exportTo} {
		if d == "" {
			continue
		}
		if _, err := archive.ParseDate(d); err != nil {
			return fmt.Errorf("invalid date %q: %w", d, err)
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	errOut := cmd.ErrOrStderr()
	f, err := exporter.NewExporter(st, logger).Export(exporter.ExportOptions{
		From: exportFrom,
		To:   exportTo,
		Progress: func(ev exporter.ProgressEvent) {
			fmt.Fprintf(errOut, "[%3d%%] %s\n", ev.Percent, ev.Stage)
		},
	})
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(exportOut); err != nil {
		return fmt.Errorf("failed to save %s: %w", exportOut, err)
	}
	logger.Info("export written", zap.String("file", exportOut))
	return nil
}
