package detector

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"go-manga-reader/internal/layout"
	"go-manga-reader/internal/logger"
	"go-manga-reader/pkg/validation"
)

// tesseractDetector implements Detector on top of the Tesseract layout
// analysis: detected text lines become candidate regions. Requires the
// tesseract shared library and language data to be installed.
type tesseractDetector struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseractDetector creates a detector for the given language string
// (e.g. "jpn+jpn_vert").
func NewTesseractDetector(language string) (Detector, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set detector language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	return &tesseractDetector{client: client}, nil
}

// DetectRegions runs layout analysis over the full page and converts each
// detected text line into an unordered region. Degenerate boxes are rejected
// here so the layout core only ever sees well-formed input.
func (d *tesseractDetector) DetectRegions(ctx context.Context, img image.Image) ([]layout.TextRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page image: %w", err)
	}

	// The tesseract client is not safe for concurrent use.
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set page image: %w", err)
	}

	boxes, err := d.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("text detection failed: %w", err)
	}

	regions := make([]layout.TextRegion, 0, len(boxes))
	for _, b := range boxes {
		box := layout.BBox{
			X1: b.Box.Min.X,
			Y1: b.Box.Min.Y,
			X2: b.Box.Max.X,
			Y2: b.Box.Max.Y,
		}
		if !validation.ValidBBox(box) {
			logger.WithField("bbox", box).Debug("Discarding degenerate detection box")
			continue
		}
		regions = append(regions, layout.TextRegion{BBox: box})
	}
	return regions, nil
}

// Close releases the underlying tesseract client.
func (d *tesseractDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.client != nil {
		err := d.client.Close()
		d.client = nil
		return err
	}
	return nil
}
