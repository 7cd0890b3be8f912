package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seu-repo/ai-secretary/internal/adapter/ai/openai"
	"github.com/seu-repo/ai-secretary/internal/adapter/cache"
	"github.com/seu-repo/ai-secretary/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/ai-secretary/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/ai-secretary/internal/adapter/queue"
	"github.com/seu-repo/ai-secretary/internal/adapter/storage/memory"
	"github.com/seu-repo/ai-secretary/internal/adapter/storage/postgres"
	"github.com/seu-repo/ai-secretary/internal/domain"
	"github.com/seu-repo/ai-secretary/internal/observability/telemetry"
	"github.com/seu-repo/ai-secretary/internal/ports"
	"github.com/seu-repo/ai-secretary/internal/service/calendar"
	"github.com/seu-repo/ai-secretary/internal/service/dialogue"
	"github.com/seu-repo/ai-secretary/internal/service/health"
	"github.com/seu-repo/ai-secretary/internal/service/intent"
	"github.com/seu-repo/ai-secretary/internal/service/lang"
	"github.com/seu-repo/ai-secretary/internal/service/session"
	"github.com/seu-repo/ai-secretary/internal/service/slots"
	"github.com/seu-repo/ai-secretary/internal/service/task"
	"github.com/seu-repo/ai-secretary/pkg/config"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting service",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Initialize Tracer
	shutdownTracer, err := telemetry.InitTracer(telemetry.TracerConfig{
		Enabled:        cfg.OpenTelemetry.Enabled,
		ServiceName:    cfg.OpenTelemetry.ServiceName,
		ServiceVersion: cfg.App.Version,
		Endpoint:       cfg.OpenTelemetry.Jaeger.Endpoint,
		SampleRatio:    cfg.OpenTelemetry.Jaeger.SamplerParam,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	loc, err := time.LoadLocation(cfg.Dialogue.Timezone)
	if err != nil {
		logger.Fatal("Invalid timezone", zap.String("timezone", cfg.Dialogue.Timezone), zap.Error(err))
	}

	// 4. Session store: Redis when reachable, in-memory otherwise
	fallback := cache.NewLocalStore(time.Minute, logger)
	defer fallback.Close()

	var primary ports.KVStore
	if cfg.Redis.URL != "" {
		redisStore, err := cache.NewRedisStore(cfg.Redis.URL, cache.RedisOptions{
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, logger)
		if err != nil {
			logger.Warn("Redis unavailable, pending sessions stay in memory", zap.Error(err))
		} else {
			primary = redisStore
			defer redisStore.Close()
		}
	} else {
		logger.Info("Redis not configured, pending sessions stay in memory")
	}

	sessions := session.NewStore(primary, fallback, session.Options{
		TTL:        cfg.Session.TTL,
		MaxRetries: cfg.Session.MaxRetries,
	}, logger)
	go sessions.Run(ctx, cfg.Session.SweepInterval)

	// 5. Calendar and task persistence
	var (
		eventRepo ports.EventRepository
		taskRepo  ports.TaskRepository
		dbPinger  health.Pinger
	)
	if cfg.Database.URL != "" {
		db, err := postgres.NewConnection(cfg.Database.URL, postgres.Options{
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			LogLevel:        cfg.Database.LogLevel,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer postgres.Close(db)

		if cfg.Database.AutoMigrate {
			if err := postgres.RunMigrations(db); err != nil {
				logger.Fatal("Failed to run migrations", zap.Error(err))
			}
		}
		eventRepo = postgres.NewEventRepository(db, logger)
		taskRepo = postgres.NewTaskRepository(db, logger)
		dbPinger = health.PingFunc(func(ctx context.Context) error { return postgres.Ping(ctx, db) })
	} else {
		logger.Info("Database not configured, calendar and tasks stay in memory")
		eventRepo = memory.NewEventRepository()
		taskRepo = memory.NewTaskRepository()
	}

	calendarService := calendar.NewService(eventRepo, loc, logger)
	taskService := task.NewService(taskRepo, loc, logger)

	// 6. Action events (optional)
	var events queue.MessageQueue
	var natsQueue *queue.NATSQueue
	if cfg.NATS.URL != "" {
		natsQueue, err = queue.NewNATSQueue(cfg.NATS.URL, queue.Options{
			Name:          cfg.App.Name,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: cfg.NATS.ReconnectWait,
		}, logger)
		if err != nil {
			logger.Warn("NATS unavailable, action events disabled", zap.Error(err))
		} else {
			events = natsQueue
			defer natsQueue.Close()
			startActionAudit(natsQueue, logger)
		}
	}

	// 7. LLM client and dialogue components
	llmClient := openai.NewClient(openai.Options{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		Model:           cfg.LLM.Model,
		Timeout:         cfg.LLM.Timeout,
		BreakerFailures: cfg.CircuitBreaker.FailureThreshold,
		BreakerTimeout:  cfg.CircuitBreaker.Timeout,
	}, logger)

	var llm ports.LLMClient
	if llmClient.Configured() {
		llm = llmClient
	} else {
		logger.Warn("LLM API key not configured, running on rules only")
	}

	orchestrator, err := dialogue.New(dialogue.Dependencies{
		Sessions:   sessions,
		Language:   lang.NewResolver(llm, cfg.Dialogue.DefaultLanguage, logger),
		Classifier: intent.NewClassifier(llm, logger),
		Extractor:  slots.NewExtractor(llm, logger),
		Calendar:   calendarService,
		Tasks:      taskService,
		Events:     events,
	}, dialogue.Config{
		DefaultLanguage:        cfg.Dialogue.DefaultLanguage,
		Timezone:               cfg.Dialogue.Timezone,
		DefaultMeetingDuration: cfg.Dialogue.DefaultMeetingDuration,
		DefaultTaskPriority:    domain.Priority(cfg.Dialogue.DefaultTaskPriority),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to build dialogue orchestrator", zap.Error(err))
	}

	// 8. Health checks
	healthCfg := &health.Config{
		Version:  cfg.App.Version,
		Database: dbPinger,
		Sessions: sessions,
		LLM:      llmClient,
	}
	if natsQueue != nil {
		healthCfg.Queue = natsQueue
	}
	healthService := health.NewService(healthCfg, logger)

	// 9. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		Immutable:             true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.RateLimiting.Enabled {
		app.Use(middleware.RateLimit(cfg.RateLimiting.MaxRequests, cfg.RateLimiting.Window))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(cfg.App.Name, logger))
	}

	health.NewFiberHandler(healthService).RegisterRoutes(app)
	handlers.Register(app, handlers.Routes{
		Messages: handlers.NewMessageHandler(orchestrator, logger),
		WhatsApp: handlers.NewWhatsAppHandler(orchestrator, cfg.WhatsApp.VerifyToken, logger),
		Agenda:   handlers.NewAgendaHandler(taskService, calendarService, logger),
		Sessions: handlers.NewSessionHandler(sessions),
		Metrics:  cfg.Prometheus.Enabled,
	})

	// 10. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 11. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// startActionAudit logs every action event published by the orchestrator.
func startActionAudit(mq queue.MessageQueue, logger *zap.Logger) {
	err := mq.Subscribe(dialogue.ActionSubject(">"), func(msg []byte) error {
		logger.Info("Action event", zap.ByteString("msg", msg))
		return nil
	})
	if err != nil {
		logger.Warn("Failed to subscribe to action events", zap.Error(err))
	}
}
