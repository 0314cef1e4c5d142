package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/storage"
)

// ArtifactsHandler serves report artifacts (screenshots, traces, report
// files) out of the configured artifact store.
type ArtifactsHandler struct {
	store  storage.ArtifactStore
	logger logger.Logger
}

// NewArtifactsHandler creates an artifact listing and download handler.
func NewArtifactsHandler(store storage.ArtifactStore, log logger.Logger) *ArtifactsHandler {
	return &ArtifactsHandler{store: store, logger: log}
}

// ArtifactEntry describes one stored artifact.
type ArtifactEntry struct {
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
}

// List handles GET /api/v1/artifacts. The optional prefix query parameter
// narrows the listing to one report directory.
func (h *ArtifactsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	prefix := r.URL.Query().Get("prefix")

	paths, err := h.store.List(ctx, prefix)
	if err != nil {
		h.logger.Error(ctx, "failed to list artifacts", map[string]interface{}{
			"error":  err.Error(),
			"prefix": prefix,
		})
		respondError(w, http.StatusInternalServerError, "failed to list artifacts")
		return
	}

	entries := make([]ArtifactEntry, 0, len(paths))
	for _, p := range paths {
		entry := ArtifactEntry{Path: p}
		// URL is best-effort; a presign failure leaves the path usable
		// through the download endpoint.
		if url, err := h.store.URL(ctx, p); err == nil {
			entry.URL = url
		}
		entries = append(entries, entry)
	}

	respondJSON(w, http.StatusOK, ListResponse{Items: entries, Total: len(entries)})
}

// Download handles GET /api/v1/artifacts/{path} and streams the artifact
// body to the client.
func (h *ArtifactsHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	path := mux.Vars(r)["path"]

	reader, err := h.store.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrArtifactNotFound) {
			respondError(w, http.StatusNotFound, "artifact not found")
			return
		}
		if errors.Is(err, storage.ErrInvalidPath) {
			respondError(w, http.StatusBadRequest, "invalid artifact path")
			return
		}
		h.logger.Error(ctx, "failed to read artifact", map[string]interface{}{
			"error": err.Error(),
			"path":  path,
		})
		respondError(w, http.StatusInternalServerError, "failed to read artifact")
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn(ctx, "artifact stream interrupted", map[string]interface{}{
			"error": err.Error(),
			"path":  path,
		})
	}
}
