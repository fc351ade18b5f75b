package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/attendly/facekiosk/internal/constants"
)

// multipartFrame builds a multipart request body with the given text
// fields and an image part.
func multipartFrame(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("could not write field %s: %v", key, err)
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "face.jpg")
		if err != nil {
			t.Fatalf("could not create image part: %v", err)
		}
		part.Write(image)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestCaptureRegister(t *testing.T) {
	var gotName string
	server := setupMockRecognitionServer(t, map[string]http.HandlerFunc{
		"/api/register": func(w http.ResponseWriter, r *http.Request) {
			r.ParseMultipartForm(10 << 20)
			gotName = r.FormValue("name")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":"Face registered successfully for Jane Doe"}`))
		},
	})
	defer server.Close()

	body, contentType := multipartFrame(t, map[string]string{"name": "Jane Doe"}, []byte("jpeg-bytes"))
	req := httptest.NewRequest("POST", "/api/v1/register", body)
	req.Header.Set("Content-Type", contentType)
	req = requestWithClient(t, req, server.URL)

	rec := httptest.NewRecorder()
	NewCaptureHandler().Register(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotName != "Jane Doe" {
		t.Errorf("expected name forwarded, got %q", gotName)
	}
	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["message"] != "Face registered successfully for Jane Doe" {
		t.Errorf("unexpected message: %q", resp["message"])
	}
}

func TestCaptureRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		image  []byte
	}{
		{"missing name", map[string]string{}, []byte("jpeg")},
		{"missing image", map[string]string{"name": "Jane"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartFrame(t, tt.fields, tt.image)
			req := httptest.NewRequest("POST", "/api/v1/register", body)
			req.Header.Set("Content-Type", contentType)
			req = requestWithClient(t, req, "http://localhost:5001")

			rec := httptest.NewRecorder()
			NewCaptureHandler().Register(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCaptureRegisterRejectsOversizedBody(t *testing.T) {
	oversized := bytes.Repeat([]byte("x"), constants.MaxUploadSize+1)
	body, contentType := multipartFrame(t, map[string]string{"name": "Jane Doe"}, oversized)
	req := httptest.NewRequest("POST", "/api/v1/register", body)
	req.Header.Set("Content-Type", contentType)
	req = requestWithClient(t, req, "http://localhost:5001")

	rec := httptest.NewRecorder()
	NewCaptureHandler().Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for oversized body, got %d", rec.Code)
	}
}

func TestCaptureAttend(t *testing.T) {
	var gotType string
	server := setupMockRecognitionServer(t, map[string]http.HandlerFunc{
		"/api/attend": func(w http.ResponseWriter, r *http.Request) {
			r.ParseMultipartForm(10 << 20)
			gotType = r.FormValue("type")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":"Welcome, Jane Doe","name":"Jane Doe"}`))
		},
	})
	defer server.Close()

	body, contentType := multipartFrame(t, map[string]string{"type": "check_out"}, []byte("jpeg-bytes"))
	req := httptest.NewRequest("POST", "/api/v1/attend", body)
	req.Header.Set("Content-Type", contentType)
	req = requestWithClient(t, req, server.URL)

	rec := httptest.NewRecorder()
	NewCaptureHandler().Attend(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotType != "check_out" {
		t.Errorf("expected type forwarded, got %q", gotType)
	}
}

func TestCaptureAttendUpstreamError(t *testing.T) {
	server := setupMockRecognitionServer(t, map[string]http.HandlerFunc{
		"/api/attend": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error":"No face detected in image"}`))
		},
	})
	defer server.Close()

	body, contentType := multipartFrame(t, map[string]string{"type": "check_in"}, []byte("jpeg-bytes"))
	req := httptest.NewRequest("POST", "/api/v1/attend", body)
	req.Header.Set("Content-Type", contentType)
	req = requestWithClient(t, req, server.URL)

	rec := httptest.NewRecorder()
	NewCaptureHandler().Attend(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 to pass through, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No face detected in image") {
		t.Errorf("expected upstream message, got %s", rec.Body.String())
	}
}

func TestCaptureAttendUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	body, contentType := multipartFrame(t, map[string]string{"type": "check_in"}, []byte("jpeg-bytes"))
	req := httptest.NewRequest("POST", "/api/v1/attend", body)
	req.Header.Set("Content-Type", contentType)
	req = requestWithClient(t, req, server.URL)

	rec := httptest.NewRecorder()
	NewCaptureHandler().Attend(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for unreachable backend, got %d", rec.Code)
	}
}
