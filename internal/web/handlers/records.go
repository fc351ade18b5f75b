package handlers

import (
	"log"
	"net/http"

	"github.com/attendly/facekiosk/internal/web/middleware"
)

// RecordsHandler proxies attendance record queries.
type RecordsHandler struct{}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler() *RecordsHandler {
	return &RecordsHandler{}
}

// List returns all attendance records.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	records, err := client.AttendanceRecords(r.Context())
	if err != nil {
		log.Printf("listing attendance records: %v", err)
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}
