package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/attendly/facekiosk/internal/config"
)

func testServer() *Server {
	cfg := &config.Config{
		Recognition: config.RecognitionConfig{URL: "http://localhost:5001", TimeoutSeconds: 5},
		Web:         config.WebConfig{AllowedOrigins: []string{"*"}},
	}
	return NewServer(cfg, 0, "")
}

func TestHealthRoute(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestKioskPageServed(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type: %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "Attendance Kiosk") {
		t.Error("expected kiosk page body")
	}
}

func TestUnknownPathFallsBackToKioskPage(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest("GET", "/some/client/route", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Attendance Kiosk") {
		t.Error("expected fallback to kiosk page")
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("expected nosniff header, got %q", got)
	}
}
