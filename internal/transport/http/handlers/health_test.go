package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler()
	r := gin.New()
	r.GET("/healthz", handler.Status)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}

	var body HealthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("status = %q", body.Status)
	}
	if body.StartedAt.IsZero() {
		t.Fatal("started_at not set")
	}
}

func TestReadinessReportsPerCheckResults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler(
		WithReadinessCheck("database", func(ctx context.Context) error { return nil }),
		WithReadinessCheck("redis", func(ctx context.Context) error { return errors.New("connection refused") }),
	)
	r := gin.New()
	r.GET("/readyz", handler.Readiness)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.Code)
	}

	var body ReadinessResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "degraded" {
		t.Fatalf("status = %q", body.Status)
	}
	if body.Checks["database"] != "ok" {
		t.Fatalf("database check = %q", body.Checks["database"])
	}
	if body.Checks["redis"] != "connection refused" {
		t.Fatalf("redis check = %q", body.Checks["redis"])
	}
}

func TestReadinessAllHealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler(
		WithReadinessCheck("database", func(ctx context.Context) error { return nil }),
	)
	r := gin.New()
	r.GET("/readyz", handler.Readiness)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}
}
