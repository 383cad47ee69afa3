package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"absence-bot/internal/config"
	"absence-bot/internal/handler"
	"absence-bot/internal/repository"
	"absence-bot/internal/service"
	"absence-bot/pkg/discord"
)

func main() {
	logger := logrus.StandardLogger()

	logger.Info("Initializing config...")
	cfg := config.GetBotConfig()

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get database instance:", err)
	}

	recordRepo, err := repository.NewGormAbsenceRecordRepository(db)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create absence record repository")
	}

	guildConfigRepo, err := repository.NewGormGuildConfigRepository(db)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create guild config repository")
	}

	client, err := discord.NewClient(cfg.DiscordToken, logger)
	if err != nil {
		logger.Fatal("Failed to create Discord client:", err)
	}

	absenceService := service.NewAbsenceService(recordRepo, guildConfigRepo, client, logger)
	guildConfigService := service.NewGuildConfigService(guildConfigRepo, logger)
	reconcileService := service.NewReconcileService(recordRepo, guildConfigRepo, client, logger)

	botHandler := handler.NewHandler(client, absenceService, guildConfigService, logger)
	botHandler.Register()

	if err := botHandler.RegisterCommands(); err != nil {
		logger.WithError(err).Fatal("Failed to register commands")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := client.Open(ctx); err != nil {
		logger.Fatal("Failed to open gateway:", err)
	}

	reconcileService.Start(ctx, cfg.SweepInterval)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	cancel()
	client.Close(context.Background())

	if err := sqlDB.Close(); err != nil {
		logger.Infof("Error closing database: %v", err)
	}

	logger.Info("Bot stopped gracefully")
}
