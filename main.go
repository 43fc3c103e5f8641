package main

import (
	"context"
	"log"
	"time"

	"token-auth/cmd"
	"token-auth/internal/data/repository"
	"token-auth/internal/wire"
	"token-auth/pkg/database"
	"token-auth/pkg/telemetry"
	"token-auth/pkg/utils"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.Bool("issue_refresh", config.JWT.IssueRefresh),
	)

	shutdownTracing := telemetry.Setup(ctx, config.App.Name, config.Telemetry, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(config.Database.MigrationURL()); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, utils.SystemClock{}, logger)
	defer app.Close()

	if err := app.Service.User.SeedAdministrator(ctx, config.Admin.Email, config.Admin.Password); err != nil {
		logger.Fatal("Failed to seed administrator", zap.Error(err))
	}

	handler := otelhttp.NewHandler(app.Router, config.App.Name)

	if err := cmd.APIServer(handler, config.App, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
