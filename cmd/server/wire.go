//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
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
	artifactrepo "jan-server/services/agent-gateway/internal/infrastructure/repository/artifact"
	chatrepo "jan-server/services/agent-gateway/internal/infrastructure/repository/chat"
	feedbackrepo "jan-server/services/agent-gateway/internal/infrastructure/repository/feedback"
	threadrepo "jan-server/services/agent-gateway/internal/infrastructure/repository/thread"
	"jan-server/services/agent-gateway/internal/infrastructure/storage"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/handlers"
)

var domainSet = wire.NewSet(
	threadrepo.NewPostgresRepository,
	wire.Bind(new(threaddomain.Repository), new(*threadrepo.PostgresRepository)),
	chatrepo.NewPostgresRepository,
	wire.Bind(new(chatdomain.Repository), new(*chatrepo.PostgresRepository)),
	artifactrepo.NewPostgresRepository,
	wire.Bind(new(artifactdomain.Repository), new(*artifactrepo.PostgresRepository)),
	feedbackrepo.NewPostgresRepository,
	wire.Bind(new(feedbackdomain.Repository), new(*feedbackrepo.PostgresRepository)),
	threaddomain.NewService,
	wire.Bind(new(threaddomain.Service), new(*threaddomain.DefaultService)),
	chatdomain.NewService,
	wire.Bind(new(chatdomain.Service), new(*chatdomain.DefaultService)),
	artifactdomain.NewService,
	wire.Bind(new(artifactdomain.Service), new(*artifactdomain.DefaultService)),
	feedbackdomain.NewService,
	wire.Bind(new(feedbackdomain.Service), new(*feedbackdomain.DefaultService)),
)

// BuildApplication assembles the gateway with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		newLocalStorage,
		newAgentClient,
		domainSet,
		handlers.NewProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newLocalStorage(cfg *config.Config, log zerolog.Logger) (*storage.LocalStorage, error) {
	return storage.NewLocalStorage(cfg.StorageDir, log)
}

func newAgentClient(cfg *config.Config, log zerolog.Logger) *agentclient.Client {
	return agentclient.NewClient(cfg.AgentBaseURL, cfg.AgentTimeout, log)
}
