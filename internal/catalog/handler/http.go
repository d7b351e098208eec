// Package handler serves the search index and topics over HTTP.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"clearn/backend/internal/catalog"
	"clearn/backend/internal/metrics"
	"clearn/backend/internal/platform/httpjson"
)

// Source provides the current dataset and topics. *catalog.FileSource implements it.
type Source interface {
	Dataset(ctx context.Context) *catalog.Dataset
	Topics(ctx context.Context) []catalog.Topic
}

type searchIndexResponse struct {
	OK    bool                   `json:"ok"`
	Items []catalog.SearchRecord `json:"items"`
}

// Handler builds the search index per request from Source.
type Handler struct {
	source  Source
	metrics *metrics.Metrics
}

// New returns a catalog handler. m may be nil.
func New(source Source, m *metrics.Metrics) *Handler {
	return &Handler{source: source, metrics: m}
}

// Register mounts GET /search-index, GET /api/topics and GET /api/topics/{id}.
func (h *Handler) Register(r chi.Router) {
	r.Get("/search-index", h.handleSearchIndex)
	r.Get("/api/topics", h.handleTopics)
	r.Get("/api/topics/{id}", h.handleTopic)
}

func (h *Handler) handleSearchIndex(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	items := catalog.BuildIndex(h.source.Dataset(r.Context()))
	h.metrics.ObserveSearchIndexBuild(time.Since(start))
	httpjson.Write(w, http.StatusOK, searchIndexResponse{OK: true, Items: items})
}

func (h *Handler) handleTopics(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.source.Topics(r.Context()))
}

func (h *Handler) handleTopic(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Fail(w, http.StatusNotFound, "Topic not found.")
		return
	}
	t, ok := catalog.FindTopic(h.source.Topics(r.Context()), id)
	if !ok {
		httpjson.Fail(w, http.StatusNotFound, "Topic not found.")
		return
	}
	httpjson.Write(w, http.StatusOK, t)
}
