package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/engine-checkup/internal/application"
	appanalyses "github.com/bryanwahyu/engine-checkup/internal/application/analyses"
	appreports "github.com/bryanwahyu/engine-checkup/internal/application/reports"
	appvehicles "github.com/bryanwahyu/engine-checkup/internal/application/vehicles"
	"github.com/bryanwahyu/engine-checkup/internal/config"
	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
	openaiClient "github.com/bryanwahyu/engine-checkup/internal/infra/ai/openai"
	"github.com/bryanwahyu/engine-checkup/internal/infra/ai/prompt"
	"github.com/bryanwahyu/engine-checkup/internal/infra/db"
	"github.com/bryanwahyu/engine-checkup/internal/infra/detector/simulated"
	"github.com/bryanwahyu/engine-checkup/internal/infra/httpserver"
	"github.com/bryanwahyu/engine-checkup/internal/infra/logging"
	minioStore "github.com/bryanwahyu/engine-checkup/internal/infra/storage"
	"github.com/bryanwahyu/engine-checkup/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	stores, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	checkers := map[string]middleware.HealthChecker{}
	if stores.DB != nil {
		checkers["database"] = middleware.PingChecker{DB: stores.DB}
	}

	var audio analysis.AudioStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		audio = store
		checkers["storage"] = store
	} else {
		logger.Info("minio disabled, audio uploads are rejected")
	}

	clock := application.SystemClock{}
	analysesSvc := &appanalyses.Service{
		Repo:     stores.Analyses,
		Vehicles: stores.Vehicles,
		Reports:  stores.Reports,
		Strategy: simulated.New(),
		Audio:    audio,
		Clock:    clock,
		Log:      logger.Named("analyses"),
	}
	reportsSvc := &appreports.Service{
		Repo:     stores.Reports,
		Analyses: analysesSvc,
		Clock:    clock,
		Fallback: prompt.Suggest,
		Log:      logger.Named("reports"),
	}
	if cfg.OpenAI.APIKey != "" {
		client := openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		if cfg.OpenAI.BaseURL != "" {
			client = openaiClient.NewClientWithBaseURL(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
		}
		reportsSvc.AI = client
		reportsSvc.Prompts = prompt.Builder{}
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate)
	defer limiter.Stop()

	handler := httpserver.NewRouter(httpserver.Options{
		Vehicles:       &appvehicles.Service{Repo: stores.Vehicles, Clock: clock},
		Analyses:       analysesSvc,
		Reports:        reportsSvc,
		Log:            logger.Named("http"),
		AuthKeys:       cfg.Auth.Keys,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Limiter:        limiter,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
		Checkers:       checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", addr), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
