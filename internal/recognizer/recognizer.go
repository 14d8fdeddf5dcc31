// Package recognizer supplies the character-recognition capability: given a
// cropped text-region bitmap, it returns the recognized text and a confidence
// score.
package recognizer

import (
	"context"
	"image"
)

// Result is one recognition outcome. Confidence is normalized to [0, 1].
type Result struct {
	Text       string
	Confidence float64
}

// Recognizer recognizes the text inside one cropped region. Implementations
// are injected into the pipeline; their lifetime is owned by the caller.
type Recognizer interface {
	Recognize(ctx context.Context, crop image.Image) (Result, error)

	// Lifecycle management
	Close() error
}
