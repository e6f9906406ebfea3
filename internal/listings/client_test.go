package listings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housemetrics/server/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func listingsFor(zipCode string, n int) []models.Listing {
	out := make([]models.Listing, n)
	for i := range out {
		out[i] = models.Listing{
			ID:      zipCode + "-listing",
			ZipCode: zipCode,
			City:    "Boulder",
			State:   "CO",
		}
	}
	return out
}

func TestFetchAllNoAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request issued without an API key configured")
	}))
	defer server.Close()

	c := NewClient(server.URL, "", testLogger())
	assert.Nil(t, c.FetchAll(context.Background(), []string{"80301"}))
}

func TestFetchAllUnionsZipCodes(t *testing.T) {
	var mu sync.Mutex
	var seenKeys []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seenKeys = append(seenKeys, r.Header.Get("X-Api-Key"))
		mu.Unlock()

		assert.Equal(t, "/properties", r.URL.Path)
		assert.Equal(t, "SingleFamily", r.URL.Query().Get("propertyType"))
		assert.Equal(t, "Active", r.URL.Query().Get("status"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		zipCode := r.URL.Query().Get("zipCode")
		json.NewEncoder(w).Encode(propertiesResponse{Properties: listingsFor(zipCode, 2)})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", testLogger())
	all := c.FetchAll(context.Background(), []string{"80301", "80302"})

	require.Len(t, all, 4)
	assert.Equal(t, "80301", all[0].ZipCode)
	assert.Equal(t, "80302", all[2].ZipCode)
	for _, key := range seenKeys {
		assert.Equal(t, "test-key", key)
	}
}

func TestFetchAllCapsZipCodes(t *testing.T) {
	var mu sync.Mutex
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		json.NewEncoder(w).Encode(propertiesResponse{})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", testLogger())
	c.FetchAll(context.Background(), []string{"1", "2", "3", "4", "5", "6", "7"})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, maxZipCodes, requests)
}

func TestFetchAllSkipsFailedZipCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("zipCode") == "80301" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(propertiesResponse{Properties: listingsFor("80302", 3)})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", testLogger())
	all := c.FetchAll(context.Background(), []string{"80301", "80302"})

	require.Len(t, all, 3)
	assert.Equal(t, "80302", all[0].ZipCode)
}

func TestFetchAllBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", testLogger())
	assert.Empty(t, c.FetchAll(context.Background(), []string{"80301"}))
}
