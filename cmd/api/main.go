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
	"go.uber.org/zap"

	"github.com/citizenconnect/gujarat-guide/backend/internal/config"
	"github.com/citizenconnect/gujarat-guide/backend/internal/handler"
	"github.com/citizenconnect/gujarat-guide/backend/internal/logging"
	"github.com/citizenconnect/gujarat-guide/backend/internal/model/guide"
	"github.com/citizenconnect/gujarat-guide/backend/internal/service/ai"
	"github.com/citizenconnect/gujarat-guide/backend/internal/service/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	// Used until the configured logger exists.
	bootstrap := zap.Must(zap.NewProduction())

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		bootstrap.Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", zap.Error(envErr))
	}

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	catalog := guide.Seed()

	// Initialize AI service
	provider := cfg.AI.Provider
	var client ai.ModelClient
	if cfg.AI.Enabled() {
		client, err = ai.NewModelClient(ctx, cfg.AI)
		if err != nil {
			logger.Warn("failed to initialize model client, answers will use the fallback text",
				zap.String("provider", provider), zap.Error(err))
		}
	} else {
		logger.Warn("no model credentials configured, answers will use the fallback text",
			zap.String("provider", provider))
	}
	if client == nil {
		client = ai.OfflineClient()
		provider = "offline"
	}

	aiService, err := ai.NewService(client, provider, logger)
	if err != nil {
		logger.Fatal("failed to initialize AI service", zap.Error(err))
	}
	logger.Info("AI service initialized", zap.String("provider", provider))

	chatService := chat.NewService(aiService, catalog,
		chat.WithResponseDelay(cfg.Chat.ResponseDelay),
		chat.WithIdleTimeout(cfg.Chat.IdleTimeout),
		chat.WithMaxWorkspaces(cfg.Chat.MaxWorkspaces),
		chat.WithLogger(logger),
	)
	go chatService.RunJanitor(ctx, time.Minute)

	router := handler.NewRouter(catalog, chatService, logger)

	startServer(ctx, logger, cfg.Server, router)
}

func startServer(ctx context.Context, logger *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("CitizenConnect Gujarat backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Error("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
