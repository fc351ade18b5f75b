package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attendly/facekiosk/internal/recognition"
)

func TestRecordsList(t *testing.T) {
	server := setupMockRecognitionServer(t, map[string]http.HandlerFunc{
		"/api/attendance": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id":"r1","name":"Jane Doe","type":"check_in","timestamp":"2026-08-28T09:00:00Z"},
				{"id":"r2","name":"Jane Doe","type":"check_out","timestamp":"2026-08-28T17:00:00Z"}
			]`))
		},
	})
	defer server.Close()

	req := requestWithClient(t, httptest.NewRequest("GET", "/api/v1/records", nil), server.URL)
	rec := httptest.NewRecorder()
	NewRecordsHandler().List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var records []recognition.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(records) != 2 || records[1].Type != "check_out" {
		t.Errorf("unexpected records: %+v", records)
	}
}
