package handlers

import (
	"net/http"

	"multisib/backend/services/collector-service/internal/models"
)

// LatestReader exposes the last persisted record.
type LatestReader interface {
	Latest() (models.TelemetryRecord, bool)
}

// LatestHandler serves GET /latest.
type LatestHandler struct {
	reader LatestReader
}

// NewLatestHandler returns handler.
func NewLatestHandler(reader LatestReader) *LatestHandler {
	return &LatestHandler{reader: reader}
}

// ServeHTTP writes the record keyed by column name, or 404 before the first
// successful tick.
func (h *LatestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	record, ok := h.reader.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no telemetry persisted yet")
		return
	}
	writeJSON(w, http.StatusOK, record)
}
