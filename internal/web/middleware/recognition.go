// Package middleware provides HTTP middleware for the kiosk web server.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/attendly/facekiosk/internal/config"
	"github.com/attendly/facekiosk/internal/recognition"
)

type contextKey string

const recognitionContextKey contextKey = "recognition"

// WithRecognitionClient is middleware that creates a Recognition API client
// and adds it to the request context so handlers can proxy calls to the
// backend.
func WithRecognitionClient(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client, err := recognition.NewClient(cfg.Recognition.URL,
				recognition.WithToken(cfg.Recognition.Token),
				recognition.WithTimeout(time.Duration(cfg.Recognition.TimeoutSeconds)*time.Second),
			)
			if err != nil {
				http.Error(w, `{"error": "failed to connect to recognition service"}`, http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), recognitionContextKey, client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetClientInContext places a Recognition client in the context. Used by
// tests to inject a client pointed at a mock server.
func SetClientInContext(ctx context.Context, client *recognition.Client) context.Context {
	return context.WithValue(ctx, recognitionContextKey, client)
}

// GetClientFromContext retrieves the Recognition client from the request
// context. Returns nil if no client is available.
func GetClientFromContext(ctx context.Context) *recognition.Client {
	client, ok := ctx.Value(recognitionContextKey).(*recognition.Client)
	if !ok {
		return nil
	}
	return client
}

// MustGetClient retrieves the Recognition client from context. If not
// available, writes an error response and returns nil. Handlers should
// return immediately after receiving nil.
func MustGetClient(ctx context.Context, w http.ResponseWriter) *recognition.Client {
	client := GetClientFromContext(ctx)
	if client == nil {
		http.Error(w, `{"error": "recognition client not available"}`, http.StatusInternalServerError)
		return nil
	}
	return client
}
