package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"housemetrics/server/config"
	"housemetrics/server/internal/features"
	"housemetrics/server/internal/listings"
	"housemetrics/server/internal/loader"
	"housemetrics/server/internal/merge"
	"housemetrics/server/internal/predictor"
	"housemetrics/server/internal/queue"
	"housemetrics/server/internal/trends"
)

// Deps wires the pipeline stages together. Stages run in dependency order
// as explicit function composition; no stage mutates another's inputs.
type Deps struct {
	Loader     *loader.Loader
	Listings   *listings.Client
	Merger     *merge.Merger
	Aggregator *trends.Aggregator
	Queue      *queue.BatchQueue
	Config     *config.Config
	Market     *config.MarketConfig
	Logger     *logrus.Logger
}

// Pipeline runs the full ingest → merge → aggregate → train → persist
// workflow for one market snapshot.
type Pipeline struct {
	loader     *loader.Loader
	listings   *listings.Client
	merger     *merge.Merger
	aggregator *trends.Aggregator
	queue      *queue.BatchQueue
	cfg        *config.Config
	market     *config.MarketConfig
	logger     *logrus.Logger
}

func New(deps Deps) *Pipeline {
	return &Pipeline{
		loader:     deps.Loader,
		listings:   deps.Listings,
		merger:     deps.Merger,
		aggregator: deps.Aggregator,
		queue:      deps.Queue,
		cfg:        deps.Config,
		market:     deps.Market,
		logger:     deps.Logger,
	}
}

// Result summarizes one pipeline run.
type Result struct {
	Transactions int
	Listings     int
	Properties   int
	Trends       int
	Metrics      *predictor.Metrics
}

// Run executes the stage sequence. A loader or training failure aborts the
// run; a degraded listings fetch does not.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (*Result, error) {
	transactions, _, err := p.loader.LoadFile(p.cfg.SalesFile, now)
	if err != nil {
		return nil, fmt.Errorf("transaction load stage failed: %w", err)
	}

	fetched := p.listings.FetchAll(ctx, p.market.ZipCodes)

	properties, _ := p.merger.Merge(transactions, fetched)
	trendRecords := p.aggregator.Aggregate(properties, now)
	if len(trendRecords) > 0 {
		p.logger.WithFields(logrus.Fields{
			"num_zip_codes":    len(trendRecords),
			"avg_market_price": trends.Mean(trendRecords),
		}).Info("Aggregated market trends")
	}

	if err := p.queue.Push(&queue.Batch{Properties: properties, Trends: trendRecords}); err != nil {
		return nil, fmt.Errorf("persistence stage failed: %w", err)
	}

	result := &Result{
		Transactions: len(transactions),
		Listings:     len(fetched),
		Properties:   len(properties),
		Trends:       len(trendRecords),
	}

	set := features.Engineer(properties, now.Year())
	pred := predictor.New(p.market.ModelType, p.logger)
	metrics, err := pred.Train(set)
	if err != nil {
		return result, fmt.Errorf("training stage failed: %w", err)
	}
	result.Metrics = metrics

	if err := pred.Save(p.cfg.ModelPath); err != nil {
		return result, fmt.Errorf("failed to save model artifact: %w", err)
	}

	return result, nil
}
