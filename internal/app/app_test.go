package app

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"job-insight/internal/config"
	"job-insight/internal/domain/offer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("8080")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	addr, err = ListenAddr(" :9090 ")
	require.NoError(t, err)
	assert.Equal(t, ":9090", addr)

	_, err = ListenAddr(" ")
	assert.Error(t, err)
}

func memoryConfig(t *testing.T, offersFile string) config.Config {
	t.Helper()
	return config.Config{
		App: config.AppConfig{AppName: "job-insight", Environment: "test", HTTPPort: "0", OffersFile: offersFile},
		// Nothing listens on port 1, so the cache degrades to a no-op.
		Redis:     config.RedisConfig{Host: "127.0.0.1", Port: "1"},
		Embedding: config.EmbeddingConfig{Provider: config.EmbeddingProviderHTTP, Model: "test-model"},
		Matching:  config.MatchingConfig{Workers: 2, SkillThreshold: 0.8, MinScore: 40},
		WTTJ:      config.WTTJConfig{BaseURL: "http://127.0.0.1:1/jobs", MaxPages: 1},
	}
}

func writeOffers(t *testing.T, offers []offer.JobOffer) string {
	t.Helper()
	b, err := json.Marshal(offers)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "offers.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestBootstrap_MemoryStore(t *testing.T) {
	path := writeOffers(t, []offer.JobOffer{
		{ID: "ft-1", Title: "Data Analyst", Source: offer.SourceFranceTravail, Location: "75 - Paris"},
		{ID: "w-1", Title: "Data Engineer", Source: offer.SourceWTTJ, Location: "Lyon"},
	})
	logger := log.New(io.Discard, "", 0)

	a, cleanup, err := Bootstrap(context.Background(), memoryConfig(t, path), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	assert.Nil(t, a.Container.DB)
	assert.Nil(t, a.Container.Runs)
	assert.Nil(t, a.Container.FT)
	assert.False(t, a.Container.Cache.Available())
	assert.Equal(t, 0.8, a.Container.MatchDefaults().SkillThreshold)

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/v1/offers?source=wttj", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"id":"w-1"`)
	assert.NotContains(t, string(body), `"id":"ft-1"`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"database":"memory"`)
	assert.Contains(t, string(body), `"cache":"disabled"`)

	// France Travail has no credentials, so collecting from it is refused.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/collect", strings.NewReader(`{"sources":["ft"],"keywords":["data"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = a.Fiber.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestBootstrap_BadOffersFile(t *testing.T) {
	_, _, err := Bootstrap(context.Background(), memoryConfig(t, filepath.Join(t.TempDir(), "missing.json")), log.New(io.Discard, "", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load offers file")
}
