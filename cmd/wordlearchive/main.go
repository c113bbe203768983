package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wordlearchive/internal/config"
)

var (
	// 全局参数
	configPath string
	dataDir    string
	verbose    bool

	cfg      *config.AppConfig
	cfgInfo  config.LoadConfigInfo
	logger   *zap.Logger
	logLevel zap.AtomicLevel
)

var rootCmd = &cobra.Command{
	Use:   "wordlearchive",
	Short: "Archive of daily word-puzzle results",
	Long: `wordlearchive stores the shared result blocks of daily word puzzles
(Wordle and its variants) together with the guessed words, and serves them
as a browsable archive with statistics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, cfgInfo, err = config.LoadConfigWithInfo(configPath)
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.Data.DataDir = dataDir
		}

		logger, logLevel, err = newLogger(cfg.Log.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newLogger 返回 logger 及其可调整的级别；verbose 固定为 debug
func newLogger(level string, verbose bool) (*zap.Logger, zap.AtomicLevel, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, zc.Level, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	l, err := zc.Build()
	return l, zc.Level, err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: config.toml next to the executable)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd, decodeCmd, sitesCmd, backfillCmd, exportCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
