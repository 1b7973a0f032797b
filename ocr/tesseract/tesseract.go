// Copyright 2026 the pagecarver authors.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// tesseract provides a recognition engine backed by the Tesseract
// OCR library via gosseract. It satisfies the pipeline's Recognizer
// interface; any engine with a compatible Recognize method can be
// swapped in.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// crops shorter than this are upscaled before recognition, as very
// small text defeats Tesseract
const minCropHeight = 40

// Engine recognizes text line images with Tesseract. Construct it
// with NewEngine, and Close it when done. It is safe for concurrent
// use; each call runs on its own client.
type Engine struct {
	languages []string

	mu     sync.Mutex
	closed bool
}

// NewEngine constructs a Tesseract-backed recognition engine. The
// language hints, e.g. "rus" or "eng", select trained data; none
// means Tesseract's default.
func NewEngine(languages ...string) *Engine {
	return &Engine{languages: languages}
}

// Recognize performs OCR on a single line image. An empty string
// with no error means the line holds no recognizable text.
func (e *Engine) Recognize(ctx context.Context, line image.Image) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return "", fmt.Errorf("Recognize called on closed engine")
	}
	e.mu.Unlock()

	prepared := prepare(line)
	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return "", fmt.Errorf("Failed to encode line image: %v", err)
	}

	c := gosseract.NewClient()
	defer c.Close()
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("Failed to set languages: %v", err)
		}
	}
	// a line crop is a single block of text
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", fmt.Errorf("Failed to set page segmentation mode: %v", err)
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("Failed to set line image: %v", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("Failed to recognize text: %v", err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases the engine. Recognize calls after Close fail.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// prepare conditions a crop for recognition: grayscale, and upscaled
// if the line is too short for Tesseract to work with.
func prepare(line image.Image) image.Image {
	gray := imaging.Grayscale(line)
	if h := gray.Bounds().Dy(); h > 0 && h < minCropHeight {
		return imaging.Resize(gray, 0, minCropHeight, imaging.Lanczos)
	}
	return gray
}
