package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/ingest"
)

const maxUploadBytes = 32 << 20 // 32MB

// IngestHandler accepts document uploads, parks the raw bytes in object
// storage and queues them for background ingestion.
type IngestHandler struct {
	obj      core.ObjectClient
	pipeline *ingest.Pipeline
}

func NewIngestHandler(obj core.ObjectClient, pipeline *ingest.Pipeline) *IngestHandler {
	return &IngestHandler{obj: obj, pipeline: pipeline}
}

// UploadDocument handles POST /api/documents: multipart upload with a "file"
// field. The source namespace is inferred from the filename extension.
func (h *IngestHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusInternalServerError)
		return
	}

	source := ingest.SourceForFilename(header.Filename)
	key := fmt.Sprintf("uploads/%d-%s", time.Now().UnixNano(), filepath.Base(header.Filename))
	contentType := header.Header.Get("Content-Type")

	url, err := h.obj.UploadFile(ctx, key, data, contentType)
	if err != nil {
		http.Error(w, fmt.Sprintf("upload failed: %v", err), http.StatusInternalServerError)
		return
	}

	h.pipeline.Enqueue(key, header.Filename, source)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"key":    key,
		"url":    url,
		"source": source,
		"status": "queued",
	})
}

// Provision handles POST /api/provision: creates every namespace's schema
// and similarity index.
func (h *IngestHandler) Provision(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.Provision(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("provisioning failed: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "provisioned"})
}
