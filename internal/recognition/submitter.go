package recognition

import (
	"context"
	"errors"

	"github.com/attendly/facekiosk/internal/capture"
)

// RegisterSubmitter adapts the registration endpoint to the capture
// pipeline. The subject carries the name to register under.
type RegisterSubmitter struct {
	Client *Client
}

// Submit delivers a captured frame to POST /api/register.
func (s RegisterSubmitter) Submit(ctx context.Context, subject string, jpegData []byte) (capture.Result, error) {
	if subject == "" {
		return capture.Result{}, errors.New("no subject name for registration")
	}

	resp, err := s.Client.Register(ctx, subject, jpegData)
	if err != nil {
		return capture.Result{}, err
	}
	return capture.Result{Message: resp.Message, Name: subject}, nil
}

// AttendSubmitter adapts the attendance endpoint to the capture
// pipeline. The subject is ignored; recognition identifies the person.
type AttendSubmitter struct {
	Client *Client
	Kind   AttendanceKind
}

// Submit delivers a captured frame to POST /api/attend.
func (s AttendSubmitter) Submit(ctx context.Context, subject string, jpegData []byte) (capture.Result, error) {
	resp, err := s.Client.Attend(ctx, jpegData, s.Kind)
	if err != nil {
		return capture.Result{}, err
	}
	return capture.Result{Message: resp.Message, Name: resp.Name}, nil
}
