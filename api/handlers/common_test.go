// Common test helpers
package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lumenlearn/discovery/config"
	"github.com/lumenlearn/discovery/db/configstore"
	"github.com/lumenlearn/discovery/db/searchdb"
	"github.com/lumenlearn/discovery/logger"
	"github.com/lumenlearn/discovery/validation"
)

const testRequestTimeout = 10 * time.Second

type testCase struct {
	name           string
	queryParams    map[string]string
	expectedStatus int
	checkResponse  func(assert *require.Assertions, responseMap map[string]any)
}

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) (*gin.Engine, *searchdb.BleveDB, *configstore.Store) {
	t.Helper()

	t.Setenv("ENV", "test")
	t.Setenv("STORAGE_PATH", t.TempDir())
	t.Setenv("INDEX_PATH", "experiences.bleve")
	t.Setenv("INDEX_NAME", "experiences")
	t.Setenv("CONFIG_DB_PATH", filepath.Join(t.TempDir(), "config.db"))

	cfg, err := config.Load()
	assert.NoError(err, "could not load config")

	testLogger := newTestLogger()

	configs, err := configstore.New(testLogger, cfg)
	assert.NoError(err, "could not create configuration store")
	t.Cleanup(func() { configs.Close() })

	assert.NoError(configs.SaveConfiguration(testConfiguration))
	for _, filter := range testFilters {
		assert.NoError(configs.SaveFilter(filter))
	}
	for _, sortOption := range testSorts {
		assert.NoError(configs.SaveSort(sortOption))
	}
	for _, spotlight := range testSpotlights {
		assert.NoError(configs.SaveSpotlight(spotlight))
	}
	for _, highlight := range testHighlights {
		assert.NoError(configs.SaveHighlight(highlight))
	}

	engine, err := searchdb.New(testLogger, cfg, testKeywordFields())
	assert.NoError(err, "could not create search database")
	t.Cleanup(func() { engine.Close() })

	assert.NoError(engine.Index(testCourses), "could not index test courses")

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupSearch(router, testLogger, engine, configs, validator, testRequestTimeout)
	SetupSpotlight(router, testLogger, engine, configs, testRequestTimeout)
	SetupUIConfiguration(router, testLogger, configs)

	return router, engine, configs
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, queryParams map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
	}

	req, err := http.NewRequest(method, endpoint, nil)
	assert.NoError(err)

	router.ServeHTTP(w, req)

	return w
}
