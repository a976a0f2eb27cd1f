package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	httpapi "github.com/i474232898/weather-records/internal/api/http"
	"github.com/i474232898/weather-records/internal/config"
	"github.com/i474232898/weather-records/internal/logger"
	"github.com/i474232898/weather-records/internal/observability"
	"github.com/i474232898/weather-records/internal/scheduler"
	"github.com/i474232898/weather-records/internal/store"
	"github.com/i474232898/weather-records/internal/weather"
	"github.com/i474232898/weather-records/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog := logger.New(cfg.LogLevel, cfg.Env).WithField("service", "weather-records")
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.ProviderTimeout,
	}

	// Records live for the lifetime of the process.
	memStore := store.NewMemoryStore()

	provider := providers.NewWeatherstackProvider(
		providers.DefaultHTTPClientConfig(httpClient),
		cfg.WeatherstackBaseURL,
		cfg.WeatherstackAccessKey,
		metrics,
		appLog,
	)

	service := weather.NewService(memStore, provider, metrics, appLog)

	sched := scheduler.New(cfg.StoreReportInterval, service, metrics, appLog)
	if err := sched.Start(); err != nil {
		appLog.Errorf("failed to start scheduler: %v", err)
		return
	}
	defer sched.Stop()

	app := httpapi.NewApp(service, httpapi.Options{
		CORSOrigin: cfg.CORSOrigin,
		Logger:     appLog,
		AccessLog:  true,
	})

	go func() {
		appLog.Infof("listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLog.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	appLog.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLog.Errorf("error during shutdown: %v", err)
	}
}
