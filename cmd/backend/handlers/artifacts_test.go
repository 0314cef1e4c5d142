package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/storage"
)

func newArtifactsHandler(t *testing.T) (*ArtifactsHandler, storage.ArtifactStore) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return NewArtifactsHandler(store, logger.NewTestLogger()), store
}

func artifactsRouter(h *ArtifactsHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/artifacts", h.List).Methods("GET")
	router.HandleFunc("/api/v1/artifacts/{path:.*}", h.Download).Methods("GET")
	return router
}

func TestArtifactsListWithPrefix(t *testing.T) {
	handler, store := newArtifactsHandler(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "report-a/artifacts/screenshot-001.png", strings.NewReader("png")))
	require.NoError(t, store.Put(ctx, "report-a/execution-report.json", strings.NewReader("{}")))
	require.NoError(t, store.Put(ctx, "report-b/execution-report.json", strings.NewReader("{}")))

	rec := httptest.NewRecorder()
	artifactsRouter(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/artifacts?prefix=report-a", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Items []ArtifactEntry `json:"items"`
		Total int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	for _, item := range resp.Items {
		assert.True(t, strings.HasPrefix(item.Path, "report-a/"))
		assert.NotEmpty(t, item.URL)
	}
}

func TestArtifactsDownload(t *testing.T) {
	handler, store := newArtifactsHandler(t)
	require.NoError(t, store.Put(context.Background(), "report-a/artifacts/screenshot-001.png", strings.NewReader("fake png bytes")))

	rec := httptest.NewRecorder()
	artifactsRouter(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/report-a/artifacts/screenshot-001.png", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "fake png bytes", rec.Body.String())
}

func TestArtifactsDownloadMissing(t *testing.T) {
	handler, _ := newArtifactsHandler(t)

	rec := httptest.NewRecorder()
	artifactsRouter(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/report-x/missing.png", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
