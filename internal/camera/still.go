package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"sync"

	"github.com/attendly/facekiosk/internal/capture"
)

// Still serves a single image file as a one-frame stream. It backs
// file-based registration and lets tests drive the full pipeline
// without a physical camera.
type Still struct {
	Path string
}

// NewStill creates a provider for the given image file.
func NewStill(path string) *Still {
	return &Still{Path: path}
}

// Acquire decodes the image file. Missing files classify as no-device
// and unreadable ones as permission-denied, mirroring live camera
// failures.
func (p *Still) Acquire(ctx context.Context, c capture.Constraints) (capture.MediaStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(p.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", capture.ErrNoDevice, p.Path)
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("%w: %s", capture.ErrPermissionDenied, p.Path)
	case err != nil:
		return nil, fmt.Errorf("%w: %s: %v", capture.ErrDeviceBusy, p.Path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode %s: %v", capture.ErrDeviceBusy, p.Path, err)
	}

	return NewStillStream(img), nil
}

// StillStream is a MediaStream that always returns the same frame.
type StillStream struct {
	frame    image.Image
	signals  chan capture.Signal
	done     chan struct{}
	stopOnce sync.Once
}

// NewStillStream wraps a decoded image in a stream. Useful directly in
// tests.
func NewStillStream(img image.Image) *StillStream {
	return &StillStream{
		frame:   img,
		signals: make(chan capture.Signal, 2),
		done:    make(chan struct{}),
	}
}

// Play emits both readiness signals immediately; a decoded still is
// always renderable.
func (s *StillStream) Play(ctx context.Context) error {
	select {
	case <-s.done:
		return errors.New("stream already stopped")
	default:
	}
	s.signals <- capture.Signal{Kind: capture.SignalCanPlay}
	s.signals <- capture.Signal{Kind: capture.SignalPlaying}
	return nil
}

func (s *StillStream) Signals() <-chan capture.Signal { return s.signals }

// Frame returns the decoded image.
func (s *StillStream) Frame() (image.Image, error) {
	if s.frame == nil {
		return nil, errors.New("no frame available")
	}
	return s.frame, nil
}

// Stop is idempotent.
func (s *StillStream) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		close(s.signals)
	})
}
