package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wordlearchive/internal/api"
	"wordlearchive/internal/config"
	"wordlearchive/internal/server"
	"wordlearchive/internal/store"
	"wordlearchive/internal/util"
)

var (
	listenAddr  string
	devMode     bool
	openBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the archive web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (only used when config does not set listen_addr)")
	serveCmd.Flags().BoolVar(&devMode, "dev", false, "development mode")
	serveCmd.Flags().BoolVar(&openBrowser, "open", false, "open the submission page in a browser")
}

func runServe(cmd *cobra.Command, args []string) error {
	if listenAddr != "" && !cfgInfo.ListenAddrSpecified {
		cfg.Server.ListenAddr = listenAddr
	}
	if devMode {
		cfg.Server.DevMode = true
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Archive.SitesFile != "" {
		if err := importSitesFile(st, cfg.Archive.SitesFile); err != nil {
			return err
		}
	}

	holder := config.NewHolder(cfgInfo.Path, cfg, logger)
	if !verbose {
		holder.BindLogLevel(logLevel)
	}
	srv := server.NewServer(holder, st, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, cfg.Server.ListenAddr)
	})
	if _, err := os.Stat(cfgInfo.Path); err == nil {
		g.Go(func() error {
			return holder.Watch(ctx)
		})
	} else {
		logger.Info("no config file; hot reload disabled", zap.String("path", cfgInfo.Path))
	}

	if openBrowser {
		url := fmt.Sprintf("http://%s%spopulate", cfg.Server.ListenAddr, api.NormalizeBasePath(cfg.Server.BasePath))
		if err := util.OpenBrowser(url); err != nil {
			logger.Warn("failed to open browser", zap.String("url", url), zap.Error(err))
		}
	}

	return g.Wait()
}

func importSitesFile(st *store.Store, path string) error {
	sites, err := store.LoadSiteSeed(path)
	if err != nil {
		return err
	}
	n, err := st.ImportSites(sites)
	if err != nil {
		return err
	}
	logger.Info("sites imported", zap.String("file", path), zap.Int("count", n))
	return nil
}
