package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/arogya-bot/internal/adapter/ai/gemini"
	"github.com/seu-repo/arogya-bot/internal/adapter/audio"
	"github.com/seu-repo/arogya-bot/internal/adapter/cache"
	"github.com/seu-repo/arogya-bot/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/arogya-bot/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/arogya-bot/internal/adapter/queue"
	"github.com/seu-repo/arogya-bot/internal/adapter/speech/googlestt"
	"github.com/seu-repo/arogya-bot/internal/adapter/speech/gtts"
	"github.com/seu-repo/arogya-bot/internal/adapter/storage/jsonfile"
	"github.com/seu-repo/arogya-bot/internal/adapter/storage/postgres"
	"github.com/seu-repo/arogya-bot/internal/adapter/telegram"
	"github.com/seu-repo/arogya-bot/internal/adapter/vault"
	"github.com/seu-repo/arogya-bot/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/arogya-bot/internal/observability/telemetry"
	"github.com/seu-repo/arogya-bot/internal/ports"
	"github.com/seu-repo/arogya-bot/internal/service/conversation"
	"github.com/seu-repo/arogya-bot/internal/service/email"
	"github.com/seu-repo/arogya-bot/internal/service/health"
	"github.com/seu-repo/arogya-bot/internal/service/voice"
	"github.com/seu-repo/arogya-bot/pkg/config"
)

const (
	serviceName    = "arogya-bot"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Arogya Bot",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Resolve secrets from Vault (optional, env vars win)
	if cfg.Vault.Address != "" {
		resolveVaultSecrets(cfg, logger)
	}

	// 4. Enforce required secrets
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// 5. Initialize OpenTelemetry (Distributed Tracing)
	tracerProvider, err := telemetry.InitTracer(serviceName, serviceVersion)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6. Initialize Consultation Store
	repo := newRepository(cfg, logger)

	// 7. Initialize Advice Cache (Redis with in-memory fallback)
	adviceCache := newCache(cfg, logger)
	defer adviceCache.Close()

	// 8. Initialize Message Queue
	messageQueue := newQueue(cfg, logger)
	defer messageQueue.Close()

	// 9. Initialize Gemini Advice Client
	adviceClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, gemini.Options{
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
		MaxTokens:   cfg.Gemini.MaxTokens,
		TopP:        cfg.Gemini.TopP,
		Timeout:     cfg.Gemini.Timeout,
	}, adviceCache, cfg.Cache.AdviceTTL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}

	// 10. Initialize Voice Pipeline (decode, recognize, synthesize)
	breakerSettings := func(name string) circuitbreaker.Settings {
		return circuitbreaker.Settings{
			Name:             name,
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         cfg.Breaker.Interval,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
		}
	}
	sttClient := circuitbreaker.NewHTTPClient(
		&http.Client{Timeout: cfg.Speech.Timeout}, breakerSettings("google-stt"), logger)
	ttsClient := circuitbreaker.NewHTTPClient(
		&http.Client{Timeout: cfg.Speech.Timeout}, breakerSettings("gtts"), logger)

	converter := audio.NewConverter(cfg.Speech.FFmpegPath, logger)
	recognizer := googlestt.NewRecognizer(cfg.Speech.RecognizerKey, sttClient, logger)
	synthesizer := gtts.NewSynthesizer(ttsClient, logger)
	voicePipeline := voice.NewPipeline(converter, recognizer, synthesizer, cfg.Speech.Timeout, logger)

	// 11. Initialize Clinician Notifier (optional)
	notifier := newNotifier(cfg, logger)

	// 12. Initialize Telegram Transport
	tgClient := telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.HTTPTimeout, logger)

	// 13. Initialize Conversation Service
	sessions := conversation.NewSessionStore()
	convService := conversation.NewService(
		sessions, adviceClient, voicePipeline, repo, tgClient, notifier, messageQueue, logger)

	poller := telegram.NewPoller(tgClient, convService, cfg.Telegram.PollTimeout, logger)

	go func() {
		if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Fatal("Telegram poller failed", zap.Error(err))
		}
	}()

	// Track in-flight sessions for the ops dashboard.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				telemetry.ActiveSessions.Set(float64(sessions.Len()))
			case <-ctx.Done():
				return
			}
		}
	}()

	// 14. Initialize Ops HTTP Server (health, metrics, records)
	var app *fiber.App
	if cfg.HTTP.Enabled {
		app = newOpsServer(cfg, repo, adviceCache, logger)
		go func() {
			logger.Info("Starting ops HTTP server", zap.Int("port", cfg.HTTP.Port))
			if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
				logger.Fatal("Ops HTTP server failed", zap.Error(err))
			}
		}()
	}

	// 15. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	cancel()
	if app != nil {
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Ops HTTP server shutdown failed", zap.Error(err))
		}
	}
	logger.Info("Shutdown complete")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = level
	return zcfg.Build()
}

// resolveVaultSecrets fills secrets that are still empty after env and file
// sources. Vault errors are not fatal here; Validate decides below.
func resolveVaultSecrets(cfg *config.Config, logger *zap.Logger) {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		logger.Warn("Failed to initialize Vault client", zap.Error(err))
		return
	}
	logger.Info("Resolving secrets from Vault", zap.String("address", cfg.Vault.Address))

	if cfg.Telegram.Token == "" {
		if token, err := sm.GetTelegramToken(); err == nil {
			cfg.Telegram.Token = token
		} else {
			logger.Warn("Vault: telegram token not resolved", zap.Error(err))
		}
	}
	if cfg.Gemini.APIKey == "" {
		if key, err := sm.GetGeminiAPIKey(); err == nil {
			cfg.Gemini.APIKey = key
		} else {
			logger.Warn("Vault: gemini key not resolved", zap.Error(err))
		}
	}
	if cfg.Storage.Backend == "postgres" && cfg.Storage.Database == "" {
		if url, err := sm.GetDatabaseURL(); err == nil {
			cfg.Storage.Database = url
		} else {
			logger.Warn("Vault: database url not resolved", zap.Error(err))
		}
	}
}

func newRepository(cfg *config.Config, logger *zap.Logger) ports.ConsultationRepository {
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := postgres.NewConnection(cfg.Storage.Database, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		return postgres.NewConsultationRepository(db, logger)
	default:
		repo, err := jsonfile.NewRepository(cfg.Storage.DataFile, logger)
		if err != nil {
			logger.Fatal("Failed to open data file", zap.Error(err))
		}
		return repo
	}
}

func newCache(cfg *config.Config, logger *zap.Logger) ports.Cache {
	if cfg.Cache.RedisURL != "" {
		c, err := cache.NewRedisCache(cfg.Cache.RedisURL, logger)
		if err == nil {
			return c
		}
		logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
	}
	return cache.NewLocalCache(time.Minute, logger)
}

func newQueue(cfg *config.Config, logger *zap.Logger) queue.MessageQueue {
	switch cfg.Queue.Backend {
	case "nats":
		mq, err := queue.NewNATSQueue(cfg.Queue.NATSURL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		return mq
	case "rabbitmq":
		mq, err := queue.NewRabbitMQQueue(cfg.Queue.RabbitMQURL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		return mq
	default:
		return queue.NewNoopQueue()
	}
}

func newNotifier(cfg *config.Config, logger *zap.Logger) ports.Notifier {
	if !cfg.Notification.Email.Enabled {
		return nil
	}
	svc, err := email.NewService(&email.Config{
		Provider:       cfg.Notification.Email.Provider,
		FromEmail:      cfg.Notification.Email.From,
		FromName:       cfg.Notification.Email.FromName,
		ToEmail:        cfg.Notification.Email.To,
		SendGridAPIKey: cfg.Notification.Email.APIKey,
	}, logger)
	if err != nil {
		logger.Warn("Email notifier disabled", zap.Error(err))
		return nil
	}
	return svc
}

func newOpsServer(cfg *config.Config, repo ports.ConsultationRepository, adviceCache ports.Cache, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	// Health endpoints
	healthService := health.NewService(&health.Config{
		Version: serviceVersion,
		Repo:    repo,
		Cache:   adviceCache,
		NatsURL: cfg.Queue.NATSURL,
	}, logger)
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	app.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	// Consultation records (read-only, operator access)
	v1 := app.Group("/api/v1")
	consultationHandler := handlers.NewConsultationHandler(repo, logger)
	v1.Get("/consultations", consultationHandler.List)
	v1.Get("/consultations/stats", consultationHandler.Stats)
	v1.Get("/consultations/user/:userId", consultationHandler.ByUser)

	return app
}
