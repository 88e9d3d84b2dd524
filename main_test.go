package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"prodlens/handlers"
	"prodlens/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth struct{ err error }

func (s stubHealth) HealthCheck() error { return s.err }

type stubPipeline struct{}

func (stubPipeline) ExtractProductDetails(ctx context.Context, url string) (models.Record, string) {
	return models.NewRecord(), ""
}

func TestGetStatusReportsAllDependencies(t *testing.T) {
	h := handlers.NewHandlers(stubPipeline{})
	handler := getStatus(h, stubHealth{}, stubHealth{}, stubHealth{err: errors.New("endpoint blocked")})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status["browser_health"])
	assert.Equal(t, "healthy", status["extractor_health"])
	assert.Equal(t, "unhealthy: endpoint blocked", status["translate_health"])
	assert.Equal(t, "healthy", status["system_health"])
}
