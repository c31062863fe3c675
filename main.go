// Package main provides the entry point for the RectLink application.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rectlink/internal/app"
	"rectlink/internal/config"
	"rectlink/internal/logging"
	"rectlink/internal/metrics"
	"rectlink/internal/version"
	"rectlink/pkg/geometry"
	"rectlink/ui/mainwindow"
	"rectlink/ui/prefs"
	"rectlink/ui/tui"
)

const appID = "dev.rectlink.app"

type options struct {
	configPath  string
	logLevel    string
	metricsAddr string
	noReload    bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "rectlink",
		Short: "Place, drag and connect rectangles on a canvas",
		Long: `RectLink is a canvas of colored rectangles joined by lines.

  double-click     add a node
  drag             move a node; it slides along nodes it touches
  right-click      select two nodes to connect them, or a line to remove it`,
		Version:      version.String(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts)
		},
	}
	cmd.SetVersionTemplate("rectlink {{ .Version }}\n")

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (.toml, .yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&opts.noReload, "no-reload", false, "do not watch the executable for rebuilds")

	cmd.AddCommand(tuiCmd(opts))
	return cmd
}

func tuiCmd(opts *options) *cobra.Command {
	var nodeHeight int

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the canvas in the terminal",
		Long: `Run the canvas in the terminal, one cell per canvas unit.

Logs go to log.file from the config, or nowhere.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			// stderr belongs to the terminal UI
			logger := zap.NewNop()
			if cfg.Log.File != "" {
				if logger, err = logging.New(cfg.Log.Level, cfg.Log.Development, cfg.Log.File); err != nil {
					return err
				}
			}
			defer logger.Sync() //nolint:errcheck

			reg := metrics.NewRegistry()
			stop := serveMetrics(cfg.Metrics.Addr, reg, logger)
			defer stop()

			stateOpts := app.OptionsFromConfig(cfg, uint64(time.Now().UnixNano()))
			stateOpts.NodeHeight = nodeHeight
			stateOpts.PickTolerance = tui.DefaultPickTolerance
			stateOpts.Logger = logger
			stateOpts.Metrics = reg
			return tui.Run(stateOpts)
		},
	}
	cmd.Flags().IntVar(&nodeHeight, "node-height", tui.DefaultNodeHeight, "node height in cells")
	return cmd
}

func loadConfig(opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	// flags may have broken what the file got right
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runGUI(opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var paths []string
	if cfg.Log.File != "" {
		paths = append(paths, cfg.Log.File)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development, paths...)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting rectlink", zap.String("version", version.String()))

	reg := metrics.NewRegistry()
	stop := serveMetrics(cfg.Metrics.Addr, reg, logger)
	defer stop()

	stateOpts := app.OptionsFromConfig(cfg, uint64(time.Now().UnixNano()))
	stateOpts.Logger = logger
	stateOpts.Metrics = reg

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.RectLinkTheme{})

	win := mainwindow.New(fyneApp, mainwindow.Config{
		Canvas: geometry.NewSize(cfg.Canvas.Width, cfg.Canvas.Height),
		State:  stateOpts,
		Prefs:  prefs.Load(),
		Logger: logger,
	})

	if !opts.noReload {
		setupHotReload(win, logger)
	}

	win.ShowAndRun()
	return nil
}

// setupHotReload offers a restart when the binary is recompiled.
func setupHotReload(win *mainwindow.MainWindow, logger *zap.Logger) {
	reloader, err := app.NewExecutableReloader(logger)
	if err != nil {
		logger.Warn("hot reload disabled", zap.Error(err))
		return
	}
	logger.Debug("hot reload watching", zap.String("path", reloader.Path()))
	win.WatchBinary(reloader)
}

// serveMetrics starts the Prometheus listener when addr is set and returns a
// function that shuts it down.
func serveMetrics(addr string, reg *metrics.Registry, logger *zap.Logger) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics shutdown", zap.Error(fmt.Errorf("shutdown %s: %w", addr, err)))
		}
	}
}
