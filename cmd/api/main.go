package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/keshavdadhichb/bono-catalog-be/internal/assembler"
	"github.com/keshavdadhichb/bono-catalog-be/internal/batch"
	"github.com/keshavdadhichb/bono-catalog-be/internal/cache"
	"github.com/keshavdadhichb/bono-catalog-be/internal/gateway"
	"github.com/keshavdadhichb/bono-catalog-be/internal/http/handlers"
	"github.com/keshavdadhichb/bono-catalog-be/internal/http/httpapi"
	"github.com/keshavdadhichb/bono-catalog-be/internal/infra"
	"github.com/keshavdadhichb/bono-catalog-be/internal/providers/genai"
	"github.com/keshavdadhichb/bono-catalog-be/internal/registry"
	"github.com/keshavdadhichb/bono-catalog-be/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	cacheStore, err := storage.NewFileStore(cfg.CacheDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("cache storage setup failed")
	}
	jobStore, err := storage.NewFileStore(cfg.JobsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("batch job storage setup failed")
	}
	resultStore, err := storage.NewFileStore(cfg.ResultsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("batch result storage setup failed")
	}
	registryStore, err := storage.NewFileStore(cfg.RegistryDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("job snapshot storage setup failed")
	}

	geminiClient, err := genai.NewClient(genai.Options{
		APIKey:            cfg.GeminiAPIKey,
		BaseURL:           cfg.GeminiBaseURL,
		UploadURL:         cfg.GeminiUploadURL,
		HTTPClient:        &http.Client{Timeout: cfg.GenerateTimeout + 30*time.Second},
		Logger:            &logger,
		RequestsPerMinute: cfg.RateLimitPerMin,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("gemini client setup failed")
	}

	gw, err := gateway.New(gateway.Options{
		Client:         geminiClient,
		Downloader:     geminiClient,
		PrimaryModel:   cfg.PrimaryModel,
		FallbackModel:  cfg.FallbackModel,
		AttemptTimeout: cfg.GenerateTimeout,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("gateway setup failed")
	}

	jobs := registry.New(registry.Options{
		Persister: registry.NewFilePersister(registryStore),
		Logger:    logger,
	})

	asm, err := assembler.New(assembler.Options{
		Generator: gw,
		Cache:     cache.NewStore(cacheStore, logger),
		Registry:  jobs,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("assembler setup failed")
	}

	orchestrator, err := batch.New(batch.Options{
		Client:  geminiClient,
		Jobs:    jobStore,
		Results: resultStore,
		Model:   cfg.BatchModel,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("batch orchestrator setup failed")
	}

	app := &handlers.App{
		Logger:    logger,
		Assembler: asm,
		Registry:  jobs,
		Batch:     orchestrator,
		Generator: gw,
	}

	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app, cfg.AllowedOrigins))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("api listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("stopped")
}
