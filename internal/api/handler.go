package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xranano/AI-audio-pipeline/internal/pipeline"
	"github.com/xranano/AI-audio-pipeline/pkg/logger"
)

// defaultRecordLimit bounds unpaginated record listings.
const defaultRecordLimit = 50

// RecordReader is the read-only view of the audit store used by the API.
type RecordReader interface {
	GetRecentRecords(ctx context.Context, limit int) ([]*pipeline.Record, error)
	GetRecordByID(ctx context.Context, id int64) (*pipeline.Record, error)
}

// Handler serves the audit record API
type Handler struct {
	records RecordReader
	logger  *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(records RecordReader, log *logger.Logger) *Handler {
	return &Handler{
		records: records,
		logger:  log.Named("api-handler"),
	}
}

// GetRecords returns the most recent audit records
func (h *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecordLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	records, err := h.records.GetRecentRecords(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to fetch records", logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to fetch records")
		return
	}

	h.writeJSON(w, http.StatusOK, records)
}

// GetRecordByID returns one audit record with its full redaction ledger
func (h *Handler) GetRecordByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	record, err := h.records.GetRecordByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to fetch record", logger.Int64("id", id), logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to fetch record")
		return
	}
	if record == nil {
		h.writeError(w, http.StatusNotFound, "record not found")
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}

// GetHealth returns a liveness response
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", logger.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
