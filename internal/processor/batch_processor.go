package processor

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"housemetrics/server/config"
	"housemetrics/server/internal/database"
	"housemetrics/server/internal/queue"
)

// BatchProcessor writes persistence batches to the relational store in
// transactions, with retry on failure.
type BatchProcessor struct {
	db     *gorm.DB
	logger *logrus.Logger
	config *config.Config
	queue  *queue.BatchQueue
}

// NewBatchProcessor creates a new batch processor instance.
func NewBatchProcessor(db *gorm.DB, q *queue.BatchQueue, cfg *config.Config, logger *logrus.Logger) *BatchProcessor {
	return &BatchProcessor{
		db:     db,
		queue:  q,
		config: cfg,
		logger: logger,
	}
}

// Start subscribes the processor to the queue and launches the configured
// number of workers.
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.ProcessBatch)
	for i := 0; i < p.config.BatchProcessing.ProcessorCount; i++ {
		p.queue.Start()
	}
}

// ProcessBatch persists a single batch with transaction and retry logic.
func (p *BatchProcessor) ProcessBatch(batch *queue.Batch) error {
	var err error
	for attempt := 0; attempt <= p.config.BatchProcessing.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch persistence, attempt %d of %d", attempt, p.config.BatchProcessing.MaxRetries)
			time.Sleep(time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second)
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.AppendProperties(tx, batch.Properties); err != nil {
				return fmt.Errorf("failed to append properties batch: %w", err)
			}
			if err := database.AppendTrends(tx, batch.Trends); err != nil {
				return fmt.Errorf("failed to append trends batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.WithFields(logrus.Fields{
				"num_properties": len(batch.Properties),
				"num_trends":     len(batch.Trends),
			}).Info("Successfully persisted batch")
			return nil
		}

		p.logger.Errorf("Batch persistence failed: %v", err)
	}

	return fmt.Errorf("failed to persist batch after %d attempts: %w", p.config.BatchProcessing.MaxRetries, err)
}
