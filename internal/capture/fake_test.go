package capture

import (
	"context"
	"image"
	"sync"
)

// fakeStream is a scriptable MediaStream for session tests.
type fakeStream struct {
	mu        sync.Mutex
	signals   chan Signal
	closeOnce sync.Once
	playErrs  []error
	playCalls int
	autoReady bool
	frame     image.Image
	frameErr  error
	stops     int
}

func newFakeStream(autoReady bool) *fakeStream {
	return &fakeStream{
		signals:   make(chan Signal, 8),
		autoReady: autoReady,
		frame:     image.NewRGBA(image.Rect(0, 0, 64, 48)),
	}
}

func (f *fakeStream) Play(ctx context.Context) error {
	f.mu.Lock()
	f.playCalls++
	var err error
	if len(f.playErrs) > 0 {
		err = f.playErrs[0]
		f.playErrs = f.playErrs[1:]
	}
	auto := f.autoReady
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if auto {
		f.emit(Signal{Kind: SignalCanPlay})
		f.emit(Signal{Kind: SignalPlaying})
	}
	return nil
}

func (f *fakeStream) Signals() <-chan Signal { return f.signals }

func (f *fakeStream) Frame() (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame, f.frameErr
}

func (f *fakeStream) Stop() {
	f.mu.Lock()
	f.stops++
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.signals) })
}

func (f *fakeStream) emit(sig Signal) { f.signals <- sig }

func (f *fakeStream) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func (f *fakeStream) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playCalls
}

// fakeProvider hands out fakeStreams and records acquisitions.
type fakeProvider struct {
	mu          sync.Mutex
	err         error
	autoReady   bool
	playErrs    []error
	streams     []*fakeStream
	constraints []Constraints
}

func (p *fakeProvider) Acquire(ctx context.Context, c Constraints) (MediaStream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.constraints = append(p.constraints, c)
	if p.err != nil {
		return nil, p.err
	}
	st := newFakeStream(p.autoReady)
	st.playErrs = append([]error(nil), p.playErrs...)
	p.streams = append(p.streams, st)
	return st, nil
}

func (p *fakeProvider) setError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *fakeProvider) acquired() []*fakeStream {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*fakeStream(nil), p.streams...)
}

func (p *fakeProvider) acquireCalls() []Constraints {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Constraints(nil), p.constraints...)
}

// fakeSubmitter records submissions. When block is non-nil, Submit
// waits on it before returning, simulating an in-flight request.
type fakeSubmitter struct {
	mu       sync.Mutex
	calls    int
	subjects []string
	sizes    []int
	res      Result
	err      error
	block    chan struct{}
	done     chan struct{}
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{done: make(chan struct{}, 8)}
}

func (f *fakeSubmitter) Submit(ctx context.Context, subject string, jpegData []byte) (Result, error) {
	f.mu.Lock()
	f.calls++
	f.subjects = append(f.subjects, subject)
	f.sizes = append(f.sizes, len(jpegData))
	res, err, block := f.res, f.err, f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	f.done <- struct{}{}
	return res, err
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// serverError mimics a recognition API rejection for classification
// tests.
type serverError struct {
	status  int
	message string
}

func (e *serverError) Error() string         { return e.message }
func (e *serverError) ServerMessage() string { return e.message }
