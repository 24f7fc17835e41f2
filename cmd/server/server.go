package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"jan-server/services/agent-gateway/internal/config"
	artifactdomain "jan-server/services/agent-gateway/internal/domain/artifact"
	chatdomain "jan-server/services/agent-gateway/internal/domain/chat"
	feedbackdomain "jan-server/services/agent-gateway/internal/domain/feedback"
	threaddomain "jan-server/services/agent-gateway/internal/domain/thread"
	"jan-server/services/agent-gateway/internal/infrastructure/agentclient"
	"jan-server/services/agent-gateway/internal/infrastructure/auth"
	"jan-server/services/agent-gateway/internal/infrastructure/database"
	"jan-server/services/agent-gateway/internal/infrastructure/logger"
	"jan-server/services/agent-gateway/internal/infrastructure/observability"
	artifactrepo "jan-server/services/agent-gateway/internal/infrastructure/repository/artifact"
	chatrepo "jan-server/services/agent-gateway/internal/infrastructure/repository/chat"
	feedbackrepo "jan-server/services/agent-gateway/internal/infrastructure/repository/feedback"
	threadrepo "jan-server/services/agent-gateway/internal/infrastructure/repository/thread"
	"jan-server/services/agent-gateway/internal/infrastructure/storage"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/handlers"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	localStorage, err := storage.NewLocalStorage(cfg.StorageDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize artifact storage")
	}

	agentClient := agentclient.NewClient(cfg.AgentBaseURL, cfg.AgentTimeout, log)

	threadRepository := threadrepo.NewPostgresRepository(db)
	chatRepository := chatrepo.NewPostgresRepository(db)
	artifactRepository := artifactrepo.NewPostgresRepository(db)
	feedbackRepository := feedbackrepo.NewPostgresRepository(db)

	threadService := threaddomain.NewService(threadRepository, log)
	artifactService := artifactdomain.NewService(artifactRepository, threadService, log)
	chatService := chatdomain.NewService(chatRepository, artifactRepository, threadService, log)
	feedbackService := feedbackdomain.NewService(feedbackRepository, threadService, log)

	handlerProvider := handlers.NewProvider(threadService, chatService, artifactService, feedbackService, agentClient, localStorage, log)

	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
