// Package detector supplies the text-detection capability: given a page
// image, it returns the bounding boxes of detected text with no ordering
// guarantee. Ordering is the layout package's job.
package detector

import (
	"context"
	"image"

	"go-manga-reader/internal/layout"
)

// Detector finds text regions on a page image. Implementations are injected
// into the pipeline; their lifetime is owned by the caller.
type Detector interface {
	DetectRegions(ctx context.Context, img image.Image) ([]layout.TextRegion, error)

	// Lifecycle management
	Close() error
}
