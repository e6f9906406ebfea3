package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"housemetrics/server/internal/models"
)

// The RentCast free tier caps requests per month, so each run queries at
// most maxZipCodes zip codes with maxListingsPerZip results each.
const (
	maxZipCodes       = 5
	maxListingsPerZip = 10
)

// Client fetches active single-family listings from the RentCast API.
type Client struct {
	logger  *logrus.Logger
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Client{
		logger:  logger,
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type propertiesResponse struct {
	Properties []models.Listing `json:"properties"`
}

// FetchAll issues one request per zip code and unions the results. A failed
// zip code is logged and skipped; it never aborts the remaining codes. With
// no API key configured the fetch short-circuits to an empty result.
func (c *Client) FetchAll(ctx context.Context, zipCodes []string) []models.Listing {
	if c.apiKey == "" {
		c.logger.Warn("RENTCAST_API_KEY not configured, skipping listings fetch")
		return nil
	}

	if len(zipCodes) > maxZipCodes {
		zipCodes = zipCodes[:maxZipCodes]
	}

	var all []models.Listing
	for _, zipCode := range zipCodes {
		listings, err := c.fetchZip(ctx, zipCode)
		if err != nil {
			c.logger.WithError(err).WithField("zip_code", zipCode).Warn("Failed to load listings for zip code")
			continue
		}
		c.logger.WithFields(logrus.Fields{
			"zip_code":     zipCode,
			"num_listings": len(listings),
		}).Info("Loaded listings for zip code")
		all = append(all, listings...)
	}

	if len(all) == 0 {
		c.logger.Warn("No listings loaded from RentCast")
		return all
	}

	c.logger.WithField("num_listings", len(all)).Info("Loaded listings from RentCast")
	return all
}

func (c *Client) fetchZip(ctx context.Context, zipCode string) ([]models.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/properties", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	params := url.Values{
		"zipCode":      []string{zipCode},
		"propertyType": []string{"SingleFamily"},
		"status":       []string{"Active"},
		"limit":        []string{fmt.Sprintf("%d", maxListingsPerZip)},
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listings request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listings request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed propertiesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return parsed.Properties, nil
}
