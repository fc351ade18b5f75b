package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/attendly/facekiosk/internal/recognition"
	"github.com/attendly/facekiosk/internal/web/middleware"
)

// setupMockRecognitionServer creates a mock Recognition API server for
// handler tests.
func setupMockRecognitionServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, handler := range handlers {
		mux.HandleFunc(pattern, handler)
	}
	return httptest.NewServer(mux)
}

// requestWithClient creates a request with a Recognition client in context.
func requestWithClient(t *testing.T, req *http.Request, serverURL string) *http.Request {
	t.Helper()
	client, err := recognition.NewClient(serverURL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	ctx := middleware.SetClientInContext(req.Context(), client)
	return req.WithContext(ctx)
}

// requestWithChiParams creates a request with chi URL parameters.
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
