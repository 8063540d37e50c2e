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

	"messages-bot/internal/bot"
	"messages-bot/internal/config"
	"messages-bot/internal/storage"
	"messages-bot/pkg/logger"

	"go.uber.org/zap"
)

// ENTRY POINT

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	pgStorage, err := storage.NewPostgresStorage(ctx, &cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
	}
	defer pgStorage.Close()

	router := bot.NewRouter(pgStorage, pgStorage, bot.NewSessionStore(), zapLogger)

	tgBot, err := bot.New(cfg.TelegramToken, cfg.BotDebug, router, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	switch cfg.BotMode {
	case config.ModeWebhook:
		err = runWebhook(ctx, cfg, tgBot, zapLogger)
	default:
		err = tgBot.Start(ctx)
	}
	if err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}

func runWebhook(ctx context.Context, cfg *config.Config, tgBot *bot.Bot, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(cfg.WebhookPath, bot.NewWebhookHandler(tgBot, cfg.WebhookSecret, logger))

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Webhook server listening",
			zap.String("addr", srv.Addr),
			zap.String("path", cfg.WebhookPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if err := tgBot.RegisterWebhook(cfg.WebhookEndpoint(), cfg.WebhookSecret); err != nil {
		_ = srv.Close()
		return err
	}

	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			_ = tgBot.DeregisterWebhook()
			return fmt.Errorf("webhook server: %w", err)
		}
	}

	if err := tgBot.DeregisterWebhook(); err != nil {
		logger.Warn("Failed to remove webhook", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
