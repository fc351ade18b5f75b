package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// captureFilename is the filename the backend expects for submitted
// frames.
const captureFilename = "face.jpg"

// Register submits a captured JPEG frame for face registration under
// the given name. The body is a multipart form with fields "name" and
// "image".
func (c *Client) Register(ctx context.Context, name string, imageJPEG []byte) (*RegisterResponse, error) {
	if name == "" {
		return nil, errors.New("name must not be empty")
	}
	if len(imageJPEG) == 0 {
		return nil, errors.New("image must not be empty")
	}

	fields := map[string]string{"name": name}
	body, err := c.doMultipart(ctx, "register", fields, imageJPEG)
	if err != nil {
		return nil, err
	}

	var result RegisterResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}
	return &result, nil
}

// Attend submits a captured JPEG frame for attendance recognition.
// The kind field (check_in/check_out) tells the backend which event
// to record.
func (c *Client) Attend(ctx context.Context, imageJPEG []byte, kind AttendanceKind) (*AttendResponse, error) {
	if len(imageJPEG) == 0 {
		return nil, errors.New("image must not be empty")
	}
	if kind == "" {
		kind = CheckIn
	}

	fields := map[string]string{"type": string(kind)}
	body, err := c.doMultipart(ctx, "attend", fields, imageJPEG)
	if err != nil {
		return nil, err
	}

	var result AttendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}
	return &result, nil
}

// doMultipart sends a multipart form with the given text fields and a
// JPEG image part, returning the raw response body on any 2xx status.
func (c *Client) doMultipart(ctx context.Context, endpoint string, fields map[string]string, imageJPEG []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("could not write form field %s: %w", key, err)
		}
	}

	part, err := writer.CreateFormFile("image", captureFilename)
	if err != nil {
		return nil, fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := part.Write(imageJPEG); err != nil {
		return nil, fmt.Errorf("could not write image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolveURL(endpoint), &buf)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	c.authorize(req)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, readErrorBody(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	c.captureResponse(endpoint, body)
	return body, nil
}
