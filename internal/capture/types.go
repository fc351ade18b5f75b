// Package capture implements the face capture session controller: a
// state machine that owns the camera resource and drives one capture
// attempt from acquisition through playback, countdown, frame
// extraction and submission to the recognition service.
package capture

import (
	"context"
	"errors"
	"image"
)

// Phase is the tagged state of a capture session. All transitions go
// through the Session methods; there are no independent boolean flags.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAcquiring
	PhaseNeedsGesture
	PhasePlaying
	PhaseCountdown
	PhaseCapturing
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAcquiring:
		return "acquiring"
	case PhaseNeedsGesture:
		return "needs-gesture"
	case PhasePlaying:
		return "playing"
	case PhaseCountdown:
		return "countdown"
	case PhaseCapturing:
		return "capturing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FailReason classifies why a session entered PhaseFailed (or why a
// capture attempt was rejected). Each reason maps to a distinct
// user-facing message and recovery action.
type FailReason string

const (
	FailNone              FailReason = ""
	FailPermissionDenied  FailReason = "permission-denied"
	FailNoDevice          FailReason = "no-device"
	FailDeviceBusy        FailReason = "device-busy"
	FailUnsupported       FailReason = "unsupported"
	FailUnknown           FailReason = "unknown"
	FailPlayback          FailReason = "playback-error"
	FailCaptureNotReady   FailReason = "capture-not-ready"
	FailEncodeFailed      FailReason = "encode-failed"
	FailSubmitRejected    FailReason = "submit-rejected"
	FailSubmitUnreachable FailReason = "submit-unreachable"
)

// Sentinel errors used by MediaProvider implementations so acquisition
// failures can be classified with errors.Is.
var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNoDevice         = errors.New("no camera device found")
	ErrDeviceBusy       = errors.New("camera device busy or unreadable")
	ErrUnsupported      = errors.New("media capture not supported")
	ErrGestureRequired  = errors.New("playback requires a user gesture")

	// ErrNotReady is returned when a capture is attempted before both
	// readiness signals have fired for the current stream.
	ErrNotReady = errors.New("capture not ready")
)

// Constraints describes the requested camera stream. Audio is never
// requested.
type Constraints struct {
	Width      int
	Height     int
	FacingMode string
}

// DefaultConstraints is the fixed capture configuration used by the
// kiosk and the registration flow.
func DefaultConstraints() Constraints {
	return Constraints{Width: 640, Height: 480, FacingMode: "user"}
}

// SignalKind identifies a playback signal emitted by a media stream.
type SignalKind int

const (
	// SignalCanPlay fires once the stream has enough data to render.
	SignalCanPlay SignalKind = iota
	// SignalPlaying fires once frames are actually being produced.
	SignalPlaying
	// SignalError reports a playback failure after Play succeeded.
	SignalError
)

// Signal is a playback event from a MediaStream. Capture is only
// enabled after both SignalCanPlay and SignalPlaying have fired for
// the current stream (dual-confirmation readiness).
type Signal struct {
	Kind SignalKind
	Err  error
}

// MediaProvider acquires live camera streams. Implementations wrap the
// platform capture capability and classify failures using the sentinel
// errors above.
type MediaProvider interface {
	Acquire(ctx context.Context, c Constraints) (MediaStream, error)
}

// MediaStream is an exclusively owned camera stream handle.
//
// Play starts frame delivery; it returns ErrGestureRequired when the
// runtime refuses to start playback without user interaction. Signals
// reports readiness and playback errors; the channel is closed when
// the stream stops. Stop releases the underlying device and is
// idempotent.
type MediaStream interface {
	Play(ctx context.Context) error
	Signals() <-chan Signal
	Frame() (image.Image, error)
	Stop()
}

// Result is the interpreted outcome of a successful submission.
type Result struct {
	Message string
	Name    string
}

// Submitter delivers a captured JPEG frame plus subject identity to
// the recognition service. Implementations return a ServerError when
// the service responded with a non-2xx status.
type Submitter interface {
	Submit(ctx context.Context, subject string, jpegData []byte) (Result, error)
}

// ServerError is implemented by submission errors carrying a
// server-reported message, as opposed to transport failures where no
// response was received.
type ServerError interface {
	error
	ServerMessage() string
}

// classifyAcquireError maps an acquisition failure to a FailReason and
// a user-facing message.
func classifyAcquireError(err error) (FailReason, string) {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return FailPermissionDenied, "Camera access was denied. Allow camera access and try again."
	case errors.Is(err, ErrNoDevice):
		return FailNoDevice, "No camera device was found."
	case errors.Is(err, ErrDeviceBusy):
		return FailDeviceBusy, "The camera is busy or could not be read."
	case errors.Is(err, ErrUnsupported):
		return FailUnsupported, "Media capture is not supported in this environment."
	default:
		return FailUnknown, err.Error()
	}
}

// classifySubmitError distinguishes server-reported rejections from
// transport failures. Both land in PhaseFailed but carry different
// user messages.
func classifySubmitError(err error) (FailReason, string) {
	var se ServerError
	if errors.As(err, &se) {
		if msg := se.ServerMessage(); msg != "" {
			return FailSubmitRejected, msg
		}
		return FailSubmitRejected, err.Error()
	}
	return FailSubmitUnreachable, "Could not reach the recognition service. Check your connection and try again."
}
