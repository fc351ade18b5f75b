package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/attendly/facekiosk/internal/constants"
	"github.com/attendly/facekiosk/internal/recognition"
	"github.com/attendly/facekiosk/internal/web/middleware"
)

// CaptureHandler proxies frame submissions (registration and attendance)
// to the Recognition API.
type CaptureHandler struct{}

// NewCaptureHandler creates a new capture handler.
func NewCaptureHandler() *CaptureHandler {
	return &CaptureHandler{}
}

// readFramePart extracts the JPEG frame from the multipart form.
func readFramePart(r *http.Request) ([]byte, bool) {
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// Register accepts a multipart form with "name" and "image" fields and
// forwards them to POST /api/register.
func (h *CaptureHandler) Register(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	frame, ok := readFramePart(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "image is required")
		return
	}

	resp, err := client.Register(r.Context(), name, frame)
	if err != nil {
		log.Printf("registering face for %s: %v", sanitizeForLog(name), err)
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Attend accepts a multipart form with "type" and "image" fields and
// forwards them to POST /api/attend.
func (h *CaptureHandler) Attend(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	kind := recognition.AttendanceKind(r.FormValue("type"))
	frame, ok := readFramePart(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "image is required")
		return
	}

	resp, err := client.Attend(r.Context(), frame, kind)
	if err != nil {
		log.Printf("attendance submission: %v", err)
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
