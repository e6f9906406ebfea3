package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MarketConfig describes which part of the market a pipeline run covers.
type MarketConfig struct {
	// Zip codes to query against the listings API, in priority order.
	ZipCodes []string `yaml:"zip_codes"`

	// Estimator kind: random_forest, gradient_boosting or linear.
	ModelType string `yaml:"model_type"`
}

// LoadMarketConfig reads the market configuration from a YAML file.
func LoadMarketConfig(path string) (*MarketConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read market config: %w", err)
	}

	var cfg MarketConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse market config: %w", err)
	}

	if cfg.ModelType == "" {
		cfg.ModelType = "random_forest"
	}
	return &cfg, nil
}
