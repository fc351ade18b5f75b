package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Recognition.TimeoutSeconds != 30 {
		t.Errorf("expected default timeout 30, got %d", cfg.Recognition.TimeoutSeconds)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Web.Port)
	}
	if len(cfg.Web.AllowedOrigins) != 1 || cfg.Web.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origin default, got %v", cfg.Web.AllowedOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ATTEND_API_URL", "http://recognizer:5001")
	t.Setenv("ATTEND_API_TIMEOUT", "10")
	t.Setenv("ATTEND_CAMERA_PROFILE", "hd")
	t.Setenv("WEB_ALLOWED_ORIGINS", "http://localhost:3000, https://kiosk.example.com")

	cfg := Load()

	if cfg.Recognition.URL != "http://recognizer:5001" {
		t.Errorf("unexpected API URL: %q", cfg.Recognition.URL)
	}
	if cfg.Recognition.TimeoutSeconds != 10 {
		t.Errorf("expected timeout 10, got %d", cfg.Recognition.TimeoutSeconds)
	}
	if cfg.Camera.Profile != "hd" {
		t.Errorf("unexpected camera profile: %q", cfg.Camera.Profile)
	}
	want := []string{"http://localhost:3000", "https://kiosk.example.com"}
	if len(cfg.Web.AllowedOrigins) != len(want) {
		t.Fatalf("expected %d origins, got %v", len(want), cfg.Web.AllowedOrigins)
	}
	for i := range want {
		if cfg.Web.AllowedOrigins[i] != want[i] {
			t.Errorf("origin %d: expected %q, got %q", i, want[i], cfg.Web.AllowedOrigins[i])
		}
	}
}

func TestLoadIgnoresInvalidInt(t *testing.T) {
	t.Setenv("ATTEND_API_TIMEOUT", "not-a-number")

	cfg := Load()
	if cfg.Recognition.TimeoutSeconds != 30 {
		t.Errorf("expected fallback to 30, got %d", cfg.Recognition.TimeoutSeconds)
	}
}

func TestGetProfile(t *testing.T) {
	cfg := Load()

	tests := []struct {
		name        string
		wantW, want int
	}{
		{"default", 640, 480},
		{"hd", 1280, 720},
		{"low", 320, 240},
		{"", 640, 480},
		{"unknown", 640, 480},
	}

	for _, tt := range tests {
		p := cfg.GetProfile(tt.name)
		if p.Width != tt.wantW || p.Height != tt.want {
			t.Errorf("GetProfile(%q) = %dx%d, want %dx%d", tt.name, p.Width, p.Height, tt.wantW, tt.want)
		}
	}
}
