package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/tg_memory_bot/internal/ai"
	"github.com/Vovarama1992/tg_memory_bot/internal/config"
	"github.com/Vovarama1992/tg_memory_bot/internal/delivery"
	"github.com/Vovarama1992/tg_memory_bot/internal/domain"
	"github.com/Vovarama1992/tg_memory_bot/internal/error_notificator"
	"github.com/Vovarama1992/tg_memory_bot/internal/infra"
	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
	"github.com/Vovarama1992/tg_memory_bot/internal/telegram"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const serviceName = "tg_memory_bot"

func main() {

	// =========================================================================
	// ENV / DB INIT
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	if cfg.LogMode == "development" {
		baseLogger, _ = zap.NewDevelopment()
	}
	defer baseLogger.Sync()
	baseLogger = baseLogger.With(zap.String("service", serviceName))
	zl := logger.NewZapLogger(baseLogger.Sugar())

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(initCtx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}
	if err := infra.EnsureSchema(initCtx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}
	cancelInit()

	// =========================================================================
	// REPOSITORIES
	// =========================================================================

	userRepo := infra.NewUserRepo(db)
	messageRepo := infra.NewMessageRepo(db, cfg.MessageLocation)

	// =========================================================================
	// CLIENTS (AI / TELEGRAM)
	// =========================================================================

	var provider ai.Provider
	switch cfg.AIProvider {
	case "openai":
		provider = ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, ai.DefaultGeneration)
	default:
		provider = ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, ai.DefaultGeneration)
	}
	aiService := ai.NewService(provider, cfg.AIProvider)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("failed to init telegram bot: %v", err)
	}
	baseLogger.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	errService := error_notificator.NewService(
		error_notificator.NewInfra(bot, cfg.AdminChatID, baseLogger),
	)

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	userService := domain.NewUserService(userRepo)
	messageService := domain.NewMessageService(messageRepo, ports.DefaultRetryPolicy, baseLogger)
	conversation := domain.NewConversationService(
		userService,
		messageService,
		aiService,
		telegram.NewSender(bot),
		cfg.ContextLimit,
	)

	// =========================================================================
	// TELEGRAM
	// =========================================================================

	dispatcher := telegram.NewDispatcher(conversation, errService, baseLogger)
	poller := telegram.NewPoller(bot, dispatcher, cfg.PollTimeoutSeconds, baseLogger)
	botApp := telegram.NewBotApp(bot, poller, cfg.AppBaseURL, baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pollerDone, err := botApp.Start(ctx)
	if err != nil {
		log.Fatalf("failed to start telegram transport: %v", err)
	}
	baseLogger.Info("telegram transport started", zap.String("mode", string(botApp.Mode())))

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	delivery.RegisterRoutes(
		r,
		telegram.NewWebhookHandler(dispatcher, baseLogger),
		delivery.NewHistoryHandler(messageService, zl),
		delivery.RouteOptions{
			AdminToken:           cfg.AdminToken,
			WebhookRatePerMinute: cfg.WebhookRatePerMinute,
		},
	)

	// =========================================================================
	// START SERVER
	// =========================================================================

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "listening at " + srv.Addr,
			Service: serviceName,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "http shutdown",
			Service: serviceName,
			Error:   err,
		})
	}
	<-pollerDone
}
