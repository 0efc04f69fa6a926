package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pouchon_bot/internal/config"
	"pouchon_bot/internal/infrastructure"
	"pouchon_bot/internal/interfaces/http"
	"pouchon_bot/internal/usecases"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger, err := infrastructure.NewLogger(cfg.IsProduction())
	if err != nil {
		panic(err.Error())
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	_ = tgbotapi.SetLogger(zap.NewStdLog(logger.Named("tgbotapi")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telegramClient, err := infrastructure.NewTelegramClient(cfg.Telegram.Token, cfg.Telegram.PollTimeout, logger)
	if err != nil {
		logger.Fatal("failed to connect telegram bot", zap.Error(err))
	}
	telegramClient.Bot.Debug = cfg.Telegram.Debug
	logger.Info("telegram bot connected", zap.String("bot", telegramClient.UserName()))

	echoService := usecases.NewEchoService(telegramClient, logger)

	// Setup HTTP server
	handler := http.NewHandler(logger, telegramClient.UserName())
	srv := &nethttp.Server{
		Addr:              cfg.Addr(),
		Handler:           http.NewRouter(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server running", zap.String("port", cfg.Server.Port), zap.String("environment", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	// Telegram polling blocks until a shutdown signal
	telegramClient.Listen(ctx, echoService.Handle)

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
