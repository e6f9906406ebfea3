package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"housemetrics/server/config"
	"housemetrics/server/internal/database"
	"housemetrics/server/internal/listings"
	"housemetrics/server/internal/loader"
	"housemetrics/server/internal/merge"
	"housemetrics/server/internal/pipeline"
	"housemetrics/server/internal/processor"
	"housemetrics/server/internal/queue"
	"housemetrics/server/internal/trends"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	market, err := config.LoadMarketConfig(cfg.MarketFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load market configuration")
	}

	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	gormDB, err := database.OpenGorm(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database for writing")
	}

	batchQueue := queue.NewBatchQueue(cfg.BatchProcessing.QueueSize, logger)
	batchProcessor := processor.NewBatchProcessor(gormDB, batchQueue, cfg, logger)
	batchProcessor.Start()

	p := pipeline.New(pipeline.Deps{
		Loader:     loader.NewLoader(logger),
		Listings:   listings.NewClient(cfg.RentcastBaseURL, cfg.RentcastAPIKey, logger),
		Merger:     merge.NewMerger(logger),
		Aggregator: trends.NewAggregator(logger),
		Queue:      batchQueue,
		Config:     cfg,
		Market:     market,
		Logger:     logger,
	})

	result, err := p.Run(context.Background(), time.Now())

	// Let queued batches land before reporting the outcome.
	batchQueue.Close()
	batchQueue.Wait()

	if err != nil {
		logger.WithError(err).Fatal("Pipeline run failed")
	}

	logger.WithFields(logrus.Fields{
		"transactions": result.Transactions,
		"listings":     result.Listings,
		"properties":   result.Properties,
		"trends":       result.Trends,
		"r2":           result.Metrics.R2,
		"rmse":         result.Metrics.RMSE,
	}).Info("Pipeline run completed")
}
