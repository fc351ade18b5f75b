// Package camera provides media providers for the capture session: a
// live webcam backed by OpenCV and a still-image provider used for
// file-based registration and tests.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"runtime"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/attendly/facekiosk/internal/capture"
)

// framePeriod is the pump interval for live streams, roughly 30 fps.
const framePeriod = 33 * time.Millisecond

// maxReadFailures is how many consecutive failed reads the pump
// tolerates before reporting a playback error.
const maxReadFailures = 30

// Webcam acquires streams from a local video device.
type Webcam struct {
	DeviceID int
}

// NewWebcam creates a provider for the given device index.
func NewWebcam(deviceID int) *Webcam {
	return &Webcam{DeviceID: deviceID}
}

// Acquire opens the device and applies the requested resolution. The
// stream does not deliver frames until Play is called.
func (w *Webcam) Acquire(ctx context.Context, c capture.Constraints) (capture.MediaStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := probeDevice(w.DeviceID); err != nil {
		return nil, err
	}

	vc, err := gocv.OpenVideoCapture(w.DeviceID)
	if err != nil {
		// The device node exists and is accessible, so a failed open
		// means it is held by another process or unreadable.
		return nil, fmt.Errorf("%w: device %d: %v", capture.ErrDeviceBusy, w.DeviceID, err)
	}
	if !vc.IsOpened() {
		_ = vc.Close()
		return nil, fmt.Errorf("%w: device %d", capture.ErrDeviceBusy, w.DeviceID)
	}

	if c.Width > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(c.Width))
	}
	if c.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(c.Height))
	}

	return &webcamStream{
		vc:      vc,
		signals: make(chan capture.Signal, 8),
		stop:    make(chan struct{}),
	}, nil
}

// probeDevice classifies device availability before the OpenCV open,
// which reports all failures the same way. Only Linux exposes device
// nodes to check.
func probeDevice(deviceID int) error {
	if runtime.GOOS != "linux" {
		return nil
	}

	path := fmt.Sprintf("/dev/video%d", deviceID)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	switch {
	case err == nil:
		_ = f.Close()
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", capture.ErrNoDevice, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", capture.ErrPermissionDenied, path)
	default:
		return fmt.Errorf("%w: %s: %v", capture.ErrDeviceBusy, path, err)
	}
}

// webcamStream owns an open video device. A background pump keeps the
// latest decoded frame available once playback starts.
type webcamStream struct {
	mu      sync.Mutex
	vc      *gocv.VideoCapture
	frame   image.Image
	playing bool

	signals   chan capture.Signal
	stop      chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
}

// Play starts the frame pump. The stream emits SignalCanPlay after the
// first decoded frame and SignalPlaying after the next, so readiness
// means frames are actually flowing.
func (s *webcamStream) Play(ctx context.Context) error {
	s.mu.Lock()
	if s.vc == nil {
		s.mu.Unlock()
		return errors.New("stream already stopped")
	}
	if s.playing {
		s.mu.Unlock()
		return nil
	}
	s.playing = true
	s.mu.Unlock()

	go s.pump()
	return nil
}

func (s *webcamStream) Signals() <-chan capture.Signal { return s.signals }

// Frame returns the most recently pumped frame.
func (s *webcamStream) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame == nil {
		return nil, errors.New("no frame available yet")
	}
	return s.frame, nil
}

// Stop halts the pump and releases the device. Idempotent.
func (s *webcamStream) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.release()
}

func (s *webcamStream) release() {
	s.mu.Lock()
	if s.vc != nil {
		_ = s.vc.Close()
		s.vc = nil
	}
	s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.signals) })
}

func (s *webcamStream) pump() {
	mat := gocv.NewMat()
	defer mat.Close()

	ticker := time.NewTicker(framePeriod)
	defer ticker.Stop()

	decoded := 0
	failures := 0
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		vc := s.vc
		if vc == nil {
			s.mu.Unlock()
			return
		}
		ok := vc.Read(&mat)
		if !ok || mat.Empty() {
			s.mu.Unlock()
			failures++
			if failures >= maxReadFailures {
				s.emit(capture.Signal{Kind: capture.SignalError, Err: errors.New("camera stopped delivering frames")})
				return
			}
			continue
		}
		img, err := mat.ToImage()
		if err != nil {
			s.mu.Unlock()
			continue
		}
		s.frame = img
		s.mu.Unlock()

		failures = 0
		decoded++
		if decoded == 1 {
			s.emit(capture.Signal{Kind: capture.SignalCanPlay})
		} else if decoded == 2 {
			s.emit(capture.Signal{Kind: capture.SignalPlaying})
		}
	}
}

// emit never blocks; if the consumer is gone the signal is dropped.
func (s *webcamStream) emit(sig capture.Signal) {
	defer func() {
		// The signals channel closes on release; a racing emit is a
		// dropped signal, not a crash.
		_ = recover()
	}()
	select {
	case s.signals <- sig:
	default:
	}
}
