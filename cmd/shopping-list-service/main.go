package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/app"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/config"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/utils/logger"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/utils/validator"
)

func main() {
	// Local development convenience; the file is absent in deployments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if err := validator.Register(); err != nil {
		appLogger.Fatal("failed to register request validators", zap.Error(err))
	}

	if err := app.Run(cfg, appLogger); err != nil {
		appLogger.Fatal("service terminated with an error", zap.Error(err))
	}
}
