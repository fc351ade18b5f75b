package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the aggregate state for one capture attempt. It is safe
// for concurrent use; all phase transitions happen under a single
// mutex. The camera stream is exclusively owned by the session:
// starting a new acquisition or closing the session always releases
// the previous stream first.
//
// Asynchronous work (acquisition, countdown, submission) is tied to a
// generation counter. Any result arriving after the session moved on
// (reset, re-acquisition, close) is discarded without touching state.
type Session struct {
	id          string
	provider    MediaProvider
	submitter   Submitter
	constraints Constraints
	tick        time.Duration

	onPhase     func(prev, next Phase)
	onCountdown func(remaining int)
	onResult    func(res Result, err error)

	mu            sync.Mutex
	phase         Phase
	reason        FailReason
	errMsg        string
	subject       string
	countdown     int
	gen           uint64
	stream        MediaStream
	canPlay       bool
	playing       bool
	result        Result
	stopCountdown chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithConstraints overrides the default 640x480 user-facing stream
// constraints.
func WithConstraints(c Constraints) Option {
	return func(s *Session) { s.constraints = c }
}

// WithSubject sets the identity submitted with captured frames.
func WithSubject(name string) Option {
	return func(s *Session) { s.subject = name }
}

// WithCountdownTick overrides the one second countdown interval.
// Intended for tests.
func WithCountdownTick(d time.Duration) Option {
	return func(s *Session) { s.tick = d }
}

// WithPhaseFunc registers a listener invoked on every phase change.
// The listener runs with the session lock held and must not call back
// into the session.
func WithPhaseFunc(fn func(prev, next Phase)) Option {
	return func(s *Session) { s.onPhase = fn }
}

// WithCountdownFunc registers a listener for countdown ticks. It
// receives the remaining count, down to zero.
func WithCountdownFunc(fn func(remaining int)) Option {
	return func(s *Session) { s.onCountdown = fn }
}

// WithResultFunc registers a completion callback invoked after every
// submission, so the caller can refresh cached registration state.
func WithResultFunc(fn func(res Result, err error)) Option {
	return func(s *Session) { s.onResult = fn }
}

// NewSession creates a session in PhaseIdle. The provider owns camera
// access, the submitter delivers captured frames.
func NewSession(provider MediaProvider, submitter Submitter, opts ...Option) *Session {
	s := &Session{
		id:          uuid.NewString(),
		provider:    provider,
		submitter:   submitter,
		constraints: DefaultConstraints(),
		tick:        time.Second,
		phase:       PhaseIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the unique session identifier.
func (s *Session) ID() string { return s.id }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Failure returns the classified reason and user-facing message of the
// last failure. Reason is FailNone when the session has not failed.
func (s *Session) Failure() (FailReason, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason, s.errMsg
}

// Countdown returns the remaining countdown value. It is only
// meaningful during PhaseCountdown.
func (s *Session) Countdown() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countdown
}

// Result returns the outcome of the last successful submission.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SetSubject changes the identity submitted with captured frames.
func (s *Session) SetSubject(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subject = name
}

// Start acquires a camera stream and attempts playback. Any previously
// held stream is released first and any pending countdown is
// cancelled, so at most one stream is active per session. The error
// message from a previous failure is cleared on re-entry.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	s.cancelCountdownLocked()
	s.releaseStreamLocked()
	s.gen++
	gen := s.gen
	s.canPlay, s.playing = false, false
	s.reason, s.errMsg = FailNone, ""
	s.result = Result{}
	s.setPhaseLocked(PhaseAcquiring)
	provider := s.provider
	constraints := s.constraints
	s.mu.Unlock()

	if provider == nil {
		s.fail(gen, FailUnsupported, "Media capture is not supported in this environment.")
		return ErrUnsupported
	}

	stream, err := provider.Acquire(ctx, constraints)
	if err != nil {
		reason, msg := classifyAcquireError(err)
		s.fail(gen, reason, msg)
		return fmt.Errorf("could not acquire camera: %w", err)
	}

	s.mu.Lock()
	if s.gen != gen {
		// A newer acquisition or reset won; release the late stream.
		s.mu.Unlock()
		stream.Stop()
		return nil
	}
	s.stream = stream
	s.mu.Unlock()

	go s.watchSignals(stream, gen)

	return s.play(ctx, stream, gen)
}

// Reset releases the current stream, cancels timers and starts a fresh
// acquisition with the same constraints. This is the "reset camera"
// recovery action; it is valid in any phase.
func (s *Session) Reset(ctx context.Context) error {
	return s.Start(ctx)
}

// Close tears the session down: countdown cancelled, stream released,
// phase back to PhaseIdle. In-flight submissions may still complete
// against the server but their results no longer alter this session.
// Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelCountdownLocked()
	s.releaseStreamLocked()
	s.gen++
	s.canPlay, s.playing = false, false
	s.reason, s.errMsg = FailNone, ""
	s.setPhaseLocked(PhaseIdle)
}

// ManualPlay retries playback after the runtime blocked the automatic
// play attempt. Only valid in PhaseNeedsGesture.
func (s *Session) ManualPlay(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseNeedsGesture || s.stream == nil {
		phase := s.phase
		s.mu.Unlock()
		return fmt.Errorf("manual play not available in phase %s", phase)
	}
	stream, gen := s.stream, s.gen
	s.mu.Unlock()
	return s.play(ctx, stream, gen)
}

// play attempts to start stream playback. A rejection for any reason
// other than an abort is not a failure: it moves the session to
// PhaseNeedsGesture so the UI can offer a manual-play affordance.
// Reaching PhasePlaying additionally requires both readiness signals,
// which arrive through watchSignals.
func (s *Session) play(ctx context.Context, stream MediaStream, gen uint64) error {
	err := stream.Play(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		s.transition(gen, PhaseNeedsGesture)
		return nil
	}
}

// watchSignals consumes playback signals for one stream generation.
// It exits when the stream closes its channel or the session moves to
// a newer generation.
func (s *Session) watchSignals(stream MediaStream, gen uint64) {
	for sig := range stream.Signals() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		switch sig.Kind {
		case SignalCanPlay:
			s.canPlay = true
		case SignalPlaying:
			s.playing = true
		case SignalError:
			msg := "Playback failed. Reset the camera to try again."
			if sig.Err != nil {
				msg = sig.Err.Error()
			}
			s.reason, s.errMsg = FailPlayback, msg
			s.setPhaseLocked(PhaseFailed)
			s.mu.Unlock()
			continue
		}
		if s.canPlay && s.playing && (s.phase == PhaseAcquiring || s.phase == PhaseNeedsGesture) {
			s.setPhaseLocked(PhasePlaying)
		}
		s.mu.Unlock()
	}
}

// StartCountdown begins a visible countdown from n; when it reaches
// zero the current frame is captured and submitted. Requires
// PhasePlaying, so no two countdowns can run concurrently and capture
// controls stay disabled while counting. n <= 0 captures immediately.
func (s *Session) StartCountdown(ctx context.Context, n int) error {
	if n <= 0 {
		return s.Capture(ctx)
	}
	s.mu.Lock()
	if s.phase != PhasePlaying || !s.canPlay || !s.playing {
		s.mu.Unlock()
		return ErrNotReady
	}
	s.countdown = n
	s.setPhaseLocked(PhaseCountdown)
	stop := make(chan struct{})
	s.stopCountdown = stop
	gen := s.gen
	cb := s.onCountdown
	s.mu.Unlock()

	if cb != nil {
		cb(n)
	}
	go s.runCountdown(ctx, gen, stop)
	return nil
}

// CancelCountdown stops a pending countdown and returns the session to
// PhasePlaying. No capture occurs. Safe to call in any phase.
func (s *Session) CancelCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelCountdownLocked()
	if s.phase == PhaseCountdown {
		s.setPhaseLocked(PhasePlaying)
	}
}

func (s *Session) runCountdown(ctx context.Context, gen uint64, stop chan struct{}) {
	t := time.NewTicker(s.tick)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-t.C:
			s.mu.Lock()
			if s.gen != gen || s.phase != PhaseCountdown {
				s.mu.Unlock()
				return
			}
			s.countdown--
			remaining := s.countdown
			cb := s.onCountdown
			s.mu.Unlock()

			if cb != nil {
				cb(remaining)
			}
			if remaining <= 0 {
				s.captureAndSubmit(ctx, gen, true)
				return
			}
		}
	}
}

// Capture extracts the current frame and submits it immediately.
// Rejected with ErrNotReady unless the session is in PhasePlaying with
// both readiness signals confirmed.
func (s *Session) Capture(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhasePlaying || !s.canPlay || !s.playing || s.stream == nil {
		s.mu.Unlock()
		return ErrNotReady
	}
	gen := s.gen
	s.mu.Unlock()
	return s.captureAndSubmit(ctx, gen, false)
}

// captureAndSubmit rasterizes the current frame and delivers it to the
// submitter. Extraction failures leave the session in PhasePlaying so
// the user can retry without re-acquiring the camera. Submission
// outcomes for a stale generation are discarded.
func (s *Session) captureAndSubmit(ctx context.Context, gen uint64, fromCountdown bool) error {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	if fromCountdown {
		if s.phase != PhaseCountdown {
			s.mu.Unlock()
			return nil
		}
		s.stopCountdown = nil
	}
	if !s.canPlay || !s.playing || s.stream == nil {
		s.reason, s.errMsg = FailCaptureNotReady, "The camera is not ready yet."
		s.setPhaseLocked(PhasePlaying)
		s.mu.Unlock()
		return ErrNotReady
	}
	stream := s.stream
	constraints := s.constraints
	s.setPhaseLocked(PhaseCapturing)
	s.mu.Unlock()

	frame, err := stream.Frame()
	var data []byte
	if err == nil {
		data, err = encodeFrame(frame, constraints)
	}
	if err != nil {
		s.mu.Lock()
		if s.gen == gen {
			s.reason, s.errMsg = FailEncodeFailed, "Could not capture an image from the camera. Please try again."
			s.setPhaseLocked(PhasePlaying)
		}
		s.mu.Unlock()
		return fmt.Errorf("could not extract frame: %w", err)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	s.setPhaseLocked(PhaseSubmitting)
	subject := s.subject
	submitter := s.submitter
	s.mu.Unlock()

	if submitter == nil {
		s.fail(gen, FailSubmitUnreachable, "No submission target configured.")
		return errors.New("no submitter configured")
	}

	res, err := submitter.Submit(ctx, subject, data)

	s.mu.Lock()
	if s.gen != gen {
		// Session was reset or closed while the request was in flight.
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		reason, msg := classifySubmitError(err)
		s.reason, s.errMsg = reason, msg
		s.setPhaseLocked(PhaseFailed)
	} else {
		s.result = res
		s.setPhaseLocked(PhaseSucceeded)
	}
	onResult := s.onResult
	s.mu.Unlock()

	if onResult != nil {
		onResult(res, err)
	}
	if err != nil {
		return fmt.Errorf("could not submit capture: %w", err)
	}
	return nil
}

func (s *Session) fail(gen uint64, reason FailReason, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.reason, s.errMsg = reason, msg
	s.setPhaseLocked(PhaseFailed)
}

func (s *Session) transition(gen uint64, next Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.setPhaseLocked(next)
}

func (s *Session) setPhaseLocked(next Phase) {
	prev := s.phase
	if prev == next {
		return
	}
	s.phase = next
	if s.onPhase != nil {
		s.onPhase(prev, next)
	}
}

func (s *Session) cancelCountdownLocked() {
	if s.stopCountdown != nil {
		close(s.stopCountdown)
		s.stopCountdown = nil
	}
	s.countdown = 0
}

func (s *Session) releaseStreamLocked() {
	if s.stream != nil {
		s.stream.Stop()
		s.stream = nil
	}
}
