package capture

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

func TestEncodeFrameUsesNativeDimensions(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 320, 240))
	data, err := encodeFrame(frame, DefaultConstraints())
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("could not decode encoded frame: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg, got %s", format)
	}
	if cfg.Width != 320 || cfg.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestEncodeFrameFallsBackToConstraintSize(t *testing.T) {
	// A frame that reports no pixels still yields a raster target at
	// the constraint size, like a video element before layout.
	frame := image.NewRGBA(image.Rect(0, 0, 0, 0))
	data, err := encodeFrame(frame, DefaultConstraints())
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("could not decode encoded frame: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("expected 640x480 fallback, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestEncodeFrameRejectsNilFrame(t *testing.T) {
	if _, err := encodeFrame(nil, DefaultConstraints()); err == nil {
		t.Fatal("expected an error for a nil frame")
	}
}
