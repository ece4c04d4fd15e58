package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statusmap/internal/collector"
	"github.com/hamed0406/statusmap/internal/config"
	"github.com/hamed0406/statusmap/internal/httpapi"
	"github.com/hamed0406/statusmap/internal/logging"
	"github.com/hamed0406/statusmap/internal/nagios"
	"github.com/hamed0406/statusmap/internal/notify"
	"github.com/hamed0406/statusmap/internal/poller"
	"github.com/hamed0406/statusmap/internal/reconcile"
	"github.com/hamed0406/statusmap/internal/sites"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	dir, err := sites.Open(cfg.SitesFile)
	if err != nil {
		logger.Fatal("sites_open_failed", zap.String("path", cfg.SitesFile), zap.Error(err))
	}

	client := nagios.NewClient(cfg.NagiosURL, cfg.NagiosUser, cfg.NagiosPass, cfg.NagiosTimeout)
	fetcher := &nagios.RetryFetcher{Inner: client, Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}
	col := collector.New(logger, dir, fetcher, cfg.NagiosTimeout, cfg.MaxConcurrent, cfg.CacheTTL)

	memory := reconcile.NewMemory()
	memory.KeepStale = !cfg.PruneStaleHosts
	notifier := notify.Build(cfg.SlackWebhook, cfg.TelegramBotToken, cfg.TelegramChatID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// server-side watcher: alerts and /api/poll; the dashboard reads /api/status itself
	p := poller.New(logger, col, memory, notifier, poller.Config{
		Interval:        cfg.PollInterval,
		AlertOnRecovery: cfg.AlertOnRecovery,
	})
	go p.Run(ctx)

	api := httpapi.NewServer(logger, col, cfg.StaticDir)
	api.Watcher = p
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(cfg.PublicRPM, cfg.PublicBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.String("nagios", cfg.NagiosURL),
		zap.String("sites", cfg.SitesFile),
		zap.Int("notifiers", len(notifier)),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_listen_failed", zap.Error(err))
	}
	logger.Info("api_stopped")
}
