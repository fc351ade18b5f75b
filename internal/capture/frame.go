package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// jpegQuality matches the fixed encoding used by the capture UI.
const jpegQuality = 95

const (
	fallbackWidth  = 640
	fallbackHeight = 480
)

// encodeFrame rasterizes a live frame into a JPEG still. The raster
// target is sized to the frame's native dimensions, falling back to
// the constraint (or 640x480) when the frame reports no size.
func encodeFrame(frame image.Image, c Constraints) ([]byte, error) {
	if frame == nil {
		return nil, errors.New("no frame available")
	}

	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	tw, th := w, h
	if tw <= 0 || th <= 0 {
		tw, th = c.Width, c.Height
		if tw <= 0 || th <= 0 {
			tw, th = fallbackWidth, fallbackHeight
		}
	}

	target := image.NewRGBA(image.Rect(0, 0, tw, th))
	if w > 0 && h > 0 {
		draw.CatmullRom.Scale(target, target.Bounds(), frame, b, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, target, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("could not encode frame: %w", err)
	}
	if buf.Len() == 0 {
		return nil, errors.New("encoder produced no data")
	}
	return buf.Bytes(), nil
}
