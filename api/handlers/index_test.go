package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeRecordSource struct {
	records []map[string]any
	err     error
}

func (f *fakeRecordSource) Experiences(_ context.Context) ([]map[string]any, error) {
	return f.records, f.err
}

func TestHandleIndex(t *testing.T) {
	assert := require.New(t)
	router, engine, _ := setupTestServer(t, assert)

	source := &fakeRecordSource{records: []map[string]any{
		{
			"Course": map[string]any{"CourseTitle": "Statistics 101", "CourseProviderName": "edX"},
			"meta":   map[string]any{"id": "course-statistics"},
		},
	}}
	SetupIndex(router, newTestLogger(), source, engine, testRequestTimeout)

	w := makeTestHTTPRequest(router, assert, http.MethodPost, "/api/index", nil)
	assert.Equal(http.StatusOK, w.Code)

	var responseMap map[string]any
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &responseMap))
	data := responseMap["data"].(map[string]any)

	assert.Equal(float64(1), data["indexed"])
	_, err := uuid.Parse(data["request_id"].(string))
	assert.NoError(err)

	hits, err := engine.MultiGet(context.Background(), []string{"course-statistics"})
	assert.NoError(err)
	assert.Len(hits, 1, "ingested records are findable by their identifier")
}

func TestHandleIndexFetchFailure(t *testing.T) {
	assert := require.New(t)
	router, engine, _ := setupTestServer(t, assert)

	source := &fakeRecordSource{err: errors.New("metadata service unreachable")}
	SetupIndex(router, newTestLogger(), source, engine, testRequestTimeout)

	w := makeTestHTTPRequest(router, assert, http.MethodPost, "/api/index", nil)
	assert.Equal(http.StatusInternalServerError, w.Code)
}
