package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "database/housing.db", cfg.DatabasePath)
	assert.Equal(t, "models/housing_price_model.gob", cfg.ModelPath)
	assert.Equal(t, "https://api.rentcast.io/v1", cfg.RentcastBaseURL)
	assert.Empty(t, cfg.RentcastAPIKey)
	assert.Equal(t, 3, cfg.BatchProcessing.MaxRetries)
	assert.Equal(t, 10, cfg.BatchProcessing.QueueSize)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RENTCAST_API_KEY", "secret")
	t.Setenv("BATCH_QUEUE_SIZE", "25")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "secret", cfg.RentcastAPIKey)
	assert.Equal(t, 25, cfg.BatchProcessing.QueueSize)
}

func TestLoadMarketConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"zip_codes:\n  - \"80301\"\n  - \"80302\"\nmodel_type: linear\n",
	), 0644))

	cfg, err := LoadMarketConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"80301", "80302"}, cfg.ZipCodes)
	assert.Equal(t, "linear", cfg.ModelType)
}

func TestLoadMarketConfigDefaultsModelType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market.yaml")
	require.NoError(t, os.WriteFile(path, []byte("zip_codes: [\"80301\"]\n"), 0644))

	cfg, err := LoadMarketConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "random_forest", cfg.ModelType)
}

func TestLoadMarketConfigMissingFile(t *testing.T) {
	_, err := LoadMarketConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
