package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"housemetrics/server/config"
	"housemetrics/server/internal/api"
	"housemetrics/server/internal/database"
	"housemetrics/server/internal/predictor"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	logger.Infof("Using database at: %s", cfg.DatabasePath)

	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// An absent artifact degrades the predict endpoint rather than failing
	// startup.
	var pred *predictor.Predictor
	if _, err := os.Stat(cfg.ModelPath); err == nil {
		pred = predictor.New("", logger)
		if err := pred.Load(cfg.ModelPath); err != nil {
			logger.WithError(err).Error("Failed to load model artifact, predictions disabled")
			pred = nil
		}
	} else {
		logger.WithField("path", cfg.ModelPath).Warn("Price prediction model not found")
	}

	handler := api.NewHandler(db, pred, logger)

	router := gin.Default()
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
