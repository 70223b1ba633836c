// The gateway binary serves the AI-completion endpoint and the storefront
// collaborator surface over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/launchpad-demo/ai-gateway/infrastructure/flags"
	"github.com/launchpad-demo/ai-gateway/infrastructure/llm"
	"github.com/launchpad-demo/ai-gateway/infrastructure/metrics"
	"github.com/launchpad-demo/ai-gateway/internal/config"
	"github.com/launchpad-demo/ai-gateway/internal/domain"
	"github.com/launchpad-demo/ai-gateway/internal/gateway"
	"github.com/launchpad-demo/ai-gateway/internal/server"
)

const serviceName = "ai-gateway"

const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	collector := metrics.NewPrometheusMetrics(nil)
	holder := gateway.NewClientHolder(clientFactory(cfg, collector, logger))
	engine := gateway.NewEngine(holder, gateway.SlotKeys{
		Prompt:      cfg.LaunchDarkly.PromptKey,
		JudgeAnswer: cfg.LaunchDarkly.JudgeKey,
		JudgeEval:   cfg.LaunchDarkly.JudgeEvalKey,
	}, logger)

	router := server.NewRouter(engine, holder, collector, logger)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("gateway listening",
			zap.String("addr", cfg.Addr),
			zap.String("provider", cfg.Provider.Name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown incomplete", zap.Error(err))
	}
}

// clientFactory establishes the shared external connections on first
// request. Missing credentials fail here, mapping to config_unavailable
// at the response layer rather than crashing the process at boot.
func clientFactory(
	cfg *config.Config,
	collector *metrics.PrometheusMetrics,
	logger *zap.Logger,
) gateway.ClientFactory {
	return func(_ context.Context) (*gateway.ClientSet, error) {
		ldClient, err := flags.NewLDClient(cfg.LaunchDarkly.SDKKey, cfg.LaunchDarkly.InitWait())
		if err != nil {
			return nil, fmt.Errorf("config service setup: %v: %w", err, domain.ErrConfigUnavailable)
		}

		middleware := []llm.Middleware{
			llm.MetricsMiddleware(collector),
			llm.LoggingMiddleware(logger),
			llm.TracingMiddleware(serviceName),
			llm.TimeoutMiddleware(cfg.Provider.Timeout()),
		}
		if cfg.Provider.RequestsPerSecond > 0 {
			middleware = append(middleware,
				llm.RateLimitMiddleware(rate.Limit(cfg.Provider.RequestsPerSecond), 1))
		}

		provider, err := llm.NewClient(cfg.Provider.Name, llm.ClientConfig{
			APIKey:     cfg.Provider.APIKey(),
			Region:     cfg.Provider.Region,
			BaseURL:    cfg.Provider.BaseURL,
			Middleware: middleware,
		})
		if err != nil {
			return nil, fmt.Errorf("provider setup: %v: %w", err, domain.ErrConfigUnavailable)
		}

		return &gateway.ClientSet{
			Config:   flags.NewResolver(ldClient, logger),
			Provider: provider,
			Flags:    flags.NewFacade(ldClient, logger),
		}, nil
	}
}

func buildLogger(mode string) (*zap.Logger, error) {
	if mode == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
