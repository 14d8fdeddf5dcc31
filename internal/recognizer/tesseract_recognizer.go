package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// tesseractRecognizer implements Recognizer on top of Tesseract. One crop is
// recognized per call; the segmentation strategy is consulted per crop so
// vertical balloons are handled differently from horizontal captions.
type tesseractRecognizer struct {
	mu       sync.Mutex
	client   *gosseract.Client
	strategy SegmentationStrategy
}

// NewTesseractRecognizer creates a recognizer for the given language string.
// A nil strategy defaults to the vertical-aware strategy.
func NewTesseractRecognizer(language string, strategy SegmentationStrategy) (Recognizer, error) {
	if strategy == nil {
		strategy = NewVerticalAwareStrategy()
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set recognizer language: %w", err)
	}
	return &tesseractRecognizer{client: client, strategy: strategy}, nil
}

// Recognize runs OCR over one cropped region. Confidence is the mean word
// confidence reported by tesseract, scaled to [0, 1].
func (r *tesseractRecognizer) Recognize(ctx context.Context, crop image.Image) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return Result{}, fmt.Errorf("failed to encode region crop: %w", err)
	}

	bounds := crop.Bounds()

	// The tesseract client is not safe for concurrent use.
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.client.SetPageSegMode(r.strategy.Mode(bounds.Dx(), bounds.Dy())); err != nil {
		return Result{}, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return Result{}, fmt.Errorf("failed to set region crop: %w", err)
	}

	text, err := r.client.Text()
	if err != nil {
		return Result{}, fmt.Errorf("recognition failed: %w", err)
	}
	text = strings.TrimSpace(text)

	confidence := 0.0
	if text != "" {
		words, err := r.client.GetBoundingBoxes(gosseract.RIL_WORD)
		if err == nil && len(words) > 0 {
			sum := 0.0
			for _, w := range words {
				sum += w.Confidence
			}
			confidence = sum / float64(len(words)) / 100.0
			if confidence > 1 {
				confidence = 1
			}
			if confidence < 0 {
				confidence = 0
			}
		}
	}

	return Result{Text: text, Confidence: confidence}, nil
}

// Close releases the underlying tesseract client.
func (r *tesseractRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		err := r.client.Close()
		r.client = nil
		return err
	}
	return nil
}
