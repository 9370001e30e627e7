package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mintaka-labs/pennywise"
	"github.com/mintaka-labs/pennywise/internal/logging"
	fileadapter "github.com/mintaka-labs/pennywise/pkg/adapters/file"
	httpadapter "github.com/mintaka-labs/pennywise/pkg/adapters/http"
	redisadapter "github.com/mintaka-labs/pennywise/pkg/adapters/redis"
	"github.com/mintaka-labs/pennywise/pkg/adapters/sqlite"
	"github.com/mintaka-labs/pennywise/pkg/adapters/wit"
	"github.com/mintaka-labs/pennywise/pkg/observability"
	"github.com/mintaka-labs/pennywise/pkg/runner"
	"github.com/mintaka-labs/pennywise/pkg/session"
)

type serveConfig struct {
	Addr        string `env:"PENNYWISE_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"PENNYWISE_METRICS_ADDR" envDefault:":9090"`
	WitToken    string `env:"WIT_TOKEN"`
	Locale      string `env:"PENNYWISE_LOCALE" envDefault:"en"`
	LedgerPath  string `env:"PENNYWISE_LEDGER_PATH" envDefault:"pennywise.db"`
	ContextDir  string `env:"PENNYWISE_CONTEXT_DIR"`
	RedisAddr   string `env:"PENNYWISE_REDIS_ADDR"`
	RedisDB     int    `env:"PENNYWISE_REDIS_DB" envDefault:"0"`
	RedisPass   string `env:"PENNYWISE_REDIS_PASSWORD"`
	Debug       bool   `env:"PENNYWISE_DEBUG"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the message API server",
	Long:  `Starts Penny as an HTTP service exposing the JSON message API, with Prometheus metrics on a separate listener. Configuration comes from environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg serveConfig
		if err := env.Parse(&cfg); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
		if cfg.WitToken == "" {
			return fmt.Errorf("WIT_TOKEN is required")
		}

		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		logger := logging.NewJSON(level)

		return serve(cmd.Context(), cfg, logger)
	},
}

func serve(ctx context.Context, cfg serveConfig, logger *slog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetrics(registry)

	ledger, err := sqlite.Open(cfg.LedgerPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer ledger.Close()

	var sessionOpts []session.Option
	sessionOpts = append(sessionOpts, session.WithLogger(logger))

	var manager *session.Manager
	if cfg.RedisAddr != "" {
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		store := redisadapter.NewFromClient(client)
		defer store.Close()
		sessionOpts = append(sessionOpts, session.WithLocker(redisadapter.NewLocker(client, "pennywise:")))
		manager = session.NewManager(store, sessionOpts...)
	} else {
		manager = session.NewManager(fileadapter.New(cfg.ContextDir), sessionOpts...)
	}

	understander := wit.New(cfg.WitToken,
		wit.WithLogger(logger),
		wit.WithLatencyObserver(metrics.ObserveNLULatency),
	)

	bot, err := pennywise.New(understander,
		pennywise.WithLocale(cfg.Locale),
		pennywise.WithLogger(logger),
		pennywise.WithLifecycleHooks(metrics.Hooks()),
	)
	if err != nil {
		return fmt.Errorf("initialize bot: %w", err)
	}

	turns := runner.New(bot, manager, ledger, runner.WithLogger(logger))

	apiServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpadapter.NewHandler(turns, logger),
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: metricsMux,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("Message API listening", "addr", cfg.Addr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		logger.Info("Metrics listening", "addr", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("API shutdown incomplete, closing", "err", err)
			_ = apiServer.Close()
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			_ = metricsServer.Close()
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("Stopped gracefully")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
