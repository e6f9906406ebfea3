package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// HTTP port for the query API
	Port string `env:"PORT" envDefault:"8080"`

	// Path to the sqlite database file
	DatabasePath string `env:"DATABASE_PATH" envDefault:"database/housing.db"`

	// Path to the serialized model artifact
	ModelPath string `env:"MODEL_PATH" envDefault:"models/housing_price_model.gob"`

	// Path to the county sales extract
	SalesFile string `env:"SALES_FILE" envDefault:"boco-sales.csv"`

	// Path to the market configuration file (tracked zip codes, model kind)
	MarketFile string `env:"MARKET_FILE" envDefault:"config/market.yaml"`

	// RentCast API credential; empty disables the listings fetch
	RentcastAPIKey string `env:"RENTCAST_API_KEY"`

	// RentCast API base URL
	RentcastBaseURL string `env:"RENTCAST_BASE_URL" envDefault:"https://api.rentcast.io/v1"`

	// BatchProcessing configuration
	BatchProcessing struct {
		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"1"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`

		// Buffer size of the in-memory batch queue
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"10"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
