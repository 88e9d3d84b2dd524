package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"prodlens/models"
)

// ProductExtractor runs the extraction pipeline for one product URL.
type ProductExtractor interface {
	ExtractProductDetails(ctx context.Context, url string) (models.Record, string)
}

// Handlers holds the HTTP handlers and their extraction counters.
type Handlers struct {
	pipeline ProductExtractor

	totalExtractions  atomic.Int64
	failedExtractions atomic.Int64
	lastExtraction    atomic.Int64 // unix seconds, 0 until the first run
}

// Stats is a snapshot of the extraction counters.
type Stats struct {
	TotalExtractions  int64     `json:"total_extractions"`
	FailedExtractions int64     `json:"failed_extractions"`
	SuccessRate       float64   `json:"success_rate"`
	LastExtraction    time.Time `json:"last_extraction"`
}

// NewHandlers creates the handler set.
func NewHandlers(pipeline ProductExtractor) *Handlers {
	return &Handlers{pipeline: pipeline}
}

// ExtractRequest is the body of POST /api/v1/extract.
type ExtractRequest struct {
	URL string `json:"url"`
}

// ExtractResponse pairs the final record with the raw OCR text it was built
// from, so callers can inspect the evidence behind each field.
type ExtractResponse struct {
	Product models.Record `json:"product"`
	RawText string        `json:"raw_text"`
}

// ExtractProduct handles POST /api/v1/extract. The URL is free-form; the only
// validation is non-emptiness. A fatal render failure maps to 502 with the
// pipeline's error message, anything else returns the (possibly degraded)
// record.
func (h *Handlers) ExtractProduct(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	start := time.Now()
	record, rawText := h.pipeline.ExtractProductDetails(r.Context(), req.URL)

	h.totalExtractions.Add(1)
	h.lastExtraction.Store(time.Now().Unix())

	if record.IsError() {
		h.failedExtractions.Add(1)
		log.Printf("❌ Extraction failed for %s after %v", req.URL, time.Since(start))
		writeError(w, http.StatusBadGateway, record.ErrorMessage())
		return
	}

	log.Printf("✅ Extraction served for %s in %v (score: %d)", req.URL, time.Since(start), record.QualityScore())
	writeJSON(w, http.StatusOK, ExtractResponse{Product: record, RawText: rawText})
}

// Stats returns a snapshot of the extraction counters.
func (h *Handlers) Stats() Stats {
	total := h.totalExtractions.Load()
	failed := h.failedExtractions.Load()

	successRate := 0.0
	if total > 0 {
		successRate = float64(total-failed) / float64(total)
	}

	var last time.Time
	if ts := h.lastExtraction.Load(); ts > 0 {
		last = time.Unix(ts, 0)
	}

	return Stats{
		TotalExtractions:  total,
		FailedExtractions: failed,
		SuccessRate:       successRate,
		LastExtraction:    last,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
