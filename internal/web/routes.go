package web

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/attendly/facekiosk/internal/web/handlers"
	"github.com/attendly/facekiosk/internal/web/middleware"
	"github.com/attendly/facekiosk/internal/web/static"
)

func (s *Server) setupRoutes() {
	// Create handlers
	usersHandler := handlers.NewUsersHandler()
	captureHandler := handlers.NewCaptureHandler()
	recordsHandler := handlers.NewRecordsHandler()

	// Health check (no backend client needed)
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes proxying the Recognition service
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.WithRecognitionClient(s.config))

		// Users
		r.Get("/users", usersHandler.List)
		r.Post("/users", usersHandler.Create)
		r.Delete("/users/{id}", usersHandler.Delete)

		// Frame submission
		r.Post("/register", captureHandler.Register)
		r.Post("/attend", captureHandler.Attend)

		// Attendance records
		r.Get("/records", recordsHandler.List)
	})

	// Serve static files for the kiosk page
	s.router.Get("/*", s.serveStatic)
}

// serveStatic serves the embedded kiosk page and its assets.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	fs := static.GetFileSystem()
	path := r.URL.Path
	if path == "/" {
		path = "/index.html"
	}

	f, err := fs.Open(path)
	if err != nil {
		// Unknown paths fall back to the kiosk page
		f, err = fs.Open("/index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		path = "/index.html"
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil || stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	contentType := "application/octet-stream"
	switch {
	case strings.HasSuffix(path, ".html"):
		contentType = "text/html; charset=utf-8"
	case strings.HasSuffix(path, ".css"):
		contentType = "text/css; charset=utf-8"
	case strings.HasSuffix(path, ".js"):
		contentType = "application/javascript; charset=utf-8"
	case strings.HasSuffix(path, ".json"):
		contentType = "application/json"
	case strings.HasSuffix(path, ".svg"):
		contentType = "image/svg+xml"
	case strings.HasSuffix(path, ".png"):
		contentType = "image/png"
	case strings.HasSuffix(path, ".ico"):
		contentType = "image/x-icon"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, f)
}
