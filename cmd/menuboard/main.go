package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"menuboard/internal/capture"
	"menuboard/internal/config"
	"menuboard/internal/feed"
	appLog "menuboard/internal/log"
	"menuboard/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
	noCapture  bool
}

func main() {
	appLog.Info("menuboard starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"horizon_days", conf.HorizonDays,
		"cache_dir", conf.CacheDir,
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	client := feed.NewClient(filepath.Join(conf.CacheDir, "feed-cache"))
	server := web.NewServer(conf, client)

	refresh := func() {
		refreshCtx, refreshCancel := context.WithTimeout(ctx, 2*time.Minute)
		defer refreshCancel()

		if _, err := server.RefreshView(refreshCtx); err != nil {
			appLog.Error("menu refresh failed", err)
			return
		}
		if flags.noCapture {
			return
		}
		if err := capture.BoardPNG(refreshCtx, capture.Options{
			URL:        "http://" + conf.Listen + "/",
			OutputPath: filepath.Join(conf.CacheDir, "preview.png"),
		}); err != nil {
			appLog.Error("kiosk capture failed", err)
		}
	}

	httpServer := &http.Server{
		Addr:              conf.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err)
			cancel()
		}
	}()

	if flags.once {
		// The capture step screenshots the board page, so the server has
		// to be up even in once mode.
		refresh()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
		appLog.Info("menuboard exiting (once mode)")
		return
	}

	// Warm the cache once at startup, then on the configured schedule.
	go refresh()

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, refresh); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		cancel()
	} else {
		c.Start()
	}

	<-ctx.Done()

	cronCtx := c.Stop()
	<-cronCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP server shutdown failed", err)
	}

	appLog.Info("menuboard exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/menuboard/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one fetch+capture cycle and exit")
	flag.BoolVar(&cfg.noCapture, "no-capture", false, "Skip the kiosk screenshot on refresh")

	flag.Parse()

	return cfg
}
