// Package pipeline orchestrates the per-page flow: detect text regions, infer
// their reading order, crop each region, and drive recognition in that order.
package pipeline

import (
	"context"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"go-manga-reader/internal/detector"
	apperrors "go-manga-reader/internal/errors"
	"go-manga-reader/internal/layout"
	"go-manga-reader/internal/logger"
	"go-manga-reader/internal/recognizer"
	"go-manga-reader/pkg/models"
)

// PageReader runs the full detect → order → recognize pipeline for one page.
// The layout steps are pure and page-local, so one PageReader may serve many
// pages concurrently as long as its detector and recognizer allow it.
type PageReader struct {
	detector   detector.Detector
	recognizer recognizer.Recognizer
	sorter     *layout.RowSorter
	clusterer  *layout.PanelClusterer
	composer   *layout.OrderComposer

	abortOnError bool
}

// Option configures a PageReader
type Option func(*PageReader)

// WithAbortOnError makes the reader fail a page on the first detection or
// recognition error instead of substituting empty results and continuing.
func WithAbortOnError() Option {
	return func(p *PageReader) {
		p.abortOnError = true
	}
}

// NewPageReader creates a page reader around the injected detection and
// recognition collaborators.
func NewPageReader(det detector.Detector, rec recognizer.Recognizer, opts ...Option) *PageReader {
	sorter := layout.NewRowSorter()
	p := &PageReader{
		detector:   det,
		recognizer: rec,
		sorter:     sorter,
		clusterer:  layout.NewPanelClusterer(sorter),
		composer:   layout.NewOrderComposer(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReadPage processes one page image and returns its result with regions in
// final reading order. With abort-on-error disabled (the default), detection
// failures yield an empty page and recognition failures yield an empty-text,
// zero-confidence region that keeps its position in the order.
func (p *PageReader) ReadPage(ctx context.Context, img image.Image, filename string, pageNumber int) (models.PageResult, error) {
	start := time.Now()
	result := models.PageResult{
		Filename:    filename,
		PageNumber:  pageNumber,
		TextRegions: []models.RegionResult{},
		Texts:       []string{},
	}

	regions, err := p.detector.DetectRegions(ctx, img)
	if err != nil {
		if p.abortOnError {
			return result, apperrors.NewDetectionError("text detection failed", err)
		}
		logger.WithError(err).WithPage(filename, pageNumber).Warn("Text detection failed, continuing with empty page")
		regions = nil
	}

	if len(regions) == 0 {
		result.ProcessingTime = time.Since(start).Seconds()
		return result, nil
	}

	flat := p.sorter.Sort(regions)
	panels := p.clusterer.Cluster(regions)
	ordered := p.composer.Compose(flat, panels, len(regions))

	logger.WithPage(filename, pageNumber).WithFields(logrus.Fields{
		"regions": len(regions),
		"panels":  len(panels),
	}).Debug("Reading order inferred")

	for _, region := range ordered {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		crop, ok := cropRegion(img, region.BBox)
		if !ok {
			logger.WithPage(filename, pageNumber).WithField("bbox", region.BBox).Warn("Skipping region outside page bounds")
			continue
		}

		rec, err := p.recognizer.Recognize(ctx, crop)
		if err != nil {
			if p.abortOnError {
				return result, apperrors.NewRecognitionError("recognition failed", err)
			}
			// A failed region keeps its slot in the order with empty text.
			logger.WithError(err).WithPage(filename, pageNumber).WithField("region_id", region.ReadingOrder).Warn("Recognition failed for region")
			rec = recognizer.Result{}
		}

		result.TextRegions = append(result.TextRegions, models.RegionResult{
			RegionID:   region.ReadingOrder,
			BBox:       [4]int{region.BBox.X1, region.BBox.Y1, region.BBox.X2, region.BBox.Y2},
			Text:       rec.Text,
			Confidence: rec.Confidence,
		})
		if rec.Text != "" {
			result.Texts = append(result.Texts, rec.Text)
		}
	}

	result.ProcessingTime = time.Since(start).Seconds()
	return result, nil
}
