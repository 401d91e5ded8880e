package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"

	"github.com/digkill/contos-diarios/internal/api"
	"github.com/digkill/contos-diarios/internal/auth"
	"github.com/digkill/contos-diarios/internal/config"
	"github.com/digkill/contos-diarios/internal/database"
	"github.com/digkill/contos-diarios/internal/llm"
	"github.com/digkill/contos-diarios/internal/repository"
	"github.com/digkill/contos-diarios/internal/service"
	"github.com/digkill/contos-diarios/internal/storage"
	"github.com/digkill/contos-diarios/internal/storyapi"
	"github.com/digkill/contos-diarios/internal/telegram"
	"github.com/digkill/contos-diarios/internal/writer"
	"github.com/digkill/contos-diarios/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logr := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
	}

	kv, closeKV, err := openStorage(ctx, cfg, redisClient, logr)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer closeKV()

	locks := service.NewUserLocks()
	planRepo := repository.NewPlanRepository(kv, logr)
	storyRepo := repository.NewStoryRepository(kv, logr)
	thirtyDayRepo := repository.NewThirtyDayRepository(kv, logr)

	storyClient := storyapi.NewClient(cfg.StoryAPIURL, cfg.StoryAPIKey, cfg.RequestTimeout, logr)

	planService := service.NewPlanService(logr, planRepo, thirtyDayRepo, locks)
	generationService := service.NewGenerationService(logr, planService, storyRepo, storyClient, service.NewInFlight(), locks, cfg.StoryStyle)
	thirtyDayService := service.NewThirtyDayService(logr, planService, thirtyDayRepo, generationService, locks)

	var storyWriter *writer.Writer
	if cfg.WriterEnabled() {
		llmClient := llm.NewClient(llm.Config{
			BaseURL:     cfg.LLMBaseURL,
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
			Timeout:     cfg.RequestTimeout,
		}, logr)
		storyWriter = writer.New(llmClient, logr)
	} else {
		logr.Warn("writer endpoint disabled: LLM_API_KEY not set")
	}

	var verifier *auth.Verifier
	if cfg.AuthJWTSecret != "" {
		verifier, err = auth.NewVerifier(cfg.AuthJWTSecret, cfg.AuthJWTIssuer)
		if err != nil {
			log.Fatalf("auth verifier: %v", err)
		}
	}
	if cfg.AuthDisabled {
		logr.Warn("auth disabled: every request is served as the local-dev user")
	}

	var limiter *api.RateLimiter
	if redisClient != nil {
		limiter = api.NewRateLimiter(redisClient, logr)
	}

	apiServer := api.NewServer(api.Options{
		Addr:             cfg.ListenAddr,
		WriteTimeout:     2*cfg.RequestTimeout + 10*time.Second,
		AuthDisabled:     cfg.AuthDisabled,
		WriterAPIKey:     cfg.WriterAPIKey,
		WriterRateLimit:  cfg.WriterRateLimit,
		WriterRateWindow: cfg.WriterRateWindow,
		MasterPassword:   cfg.MasterPassword,
	}, logr, planService, generationService, thirtyDayService, storyWriter, verifier, limiter)

	if cfg.BotToken != "" {
		botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			log.Fatalf("telegram bot: %v", err)
		}
		bot := telegram.NewBot(botAPI, logr, planService, generationService, thirtyDayService, cfg.DailyTickInterval)
		go func() {
			if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logr.Error("bot stopped", "err", err)
			}
		}()
	}

	if err := apiServer.Run(ctx); err != nil {
		logr.Error("api server stopped", "err", err)
	}
}

func openStorage(ctx context.Context, cfg config.Config, redisClient *redis.Client, logr *slog.Logger) (storage.KeyValue, func(), error) {
	noop := func() {}
	logr.Info("opening storage", "backend", cfg.StorageBackend)

	switch cfg.StorageBackend {
	case config.BackendMySQL:
		db, err := database.Connect(cfg.MySQLDSN)
		if err != nil {
			return nil, noop, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, noop, err
		}
		return storage.NewMySQL(db), func() { db.Close() }, nil
	case config.BackendRedis:
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			return nil, noop, err
		}
		return storage.NewRedis(redisClient, cfg.RedisPrefix), noop, nil
	case config.BackendS3:
		kv, err := storage.NewS3(storage.S3Config{
			Endpoint:     cfg.S3Endpoint,
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			UsePathStyle: cfg.S3UsePathStyle,
			Prefix:       cfg.S3Prefix,
		})
		if err != nil {
			return nil, noop, err
		}
		return kv, noop, nil
	default:
		logr.Warn("using in-memory storage: records are lost on restart")
		return storage.NewMemory(), noop, nil
	}
}
