package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearn/backend/internal/catalog"
	"clearn/backend/internal/metrics"
)

func newRouter(t *testing.T, dir string) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	New(catalog.NewFileSource(dir, nil), metrics.New(reg)).Register(r)
	return r, reg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSearchIndex(t *testing.T) {
	h, reg := newRouter(t, "../testdata")

	rec := get(t, h, "/search-index")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		OK    bool             `json:"ok"`
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	require.Len(t, body.Items, 5)
	assert.Equal(t, "united_states:ai_machine_learning", body.Items[0]["id"])
	assert.Equal(t, "AI Machine Learning", body.Items[0]["skillName"])
	assert.Equal(t, "/skill/ai_machine_learning?country=united_states", body.Items[0]["url"])

	count, err := testutil.GatherAndCount(reg, "clearn_search_index_build_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSearchIndex_EmptyDataset(t *testing.T) {
	h, _ := newRouter(t, t.TempDir())

	rec := get(t, h, "/search-index")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"items":[]}`, rec.Body.String())
}

func TestTopics(t *testing.T) {
	h, _ := newRouter(t, "../testdata")

	rec := get(t, h, "/api/topics")
	require.Equal(t, http.StatusOK, rec.Code)
	var topics []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &topics))
	assert.Len(t, topics, 3)

	rec = get(t, h, "/api/topics/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"Python Basics","level":"beginner"}`, rec.Body.String())

	for _, path := range []string{"/api/topics/42", "/api/topics/abc"} {
		rec = get(t, h, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.JSONEq(t, `{"ok":false,"message":"Topic not found."}`, rec.Body.String())
	}
}

func TestTopics_MissingFile(t *testing.T) {
	h, _ := newRouter(t, t.TempDir())

	rec := get(t, h, "/api/topics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
