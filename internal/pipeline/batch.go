package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"go-manga-reader/internal/archive"
	apperrors "go-manga-reader/internal/errors"
	"go-manga-reader/internal/logger"
	"go-manga-reader/internal/observer"
	"go-manga-reader/pkg/models"
)

// BatchProcessor runs the page pipeline over a whole archive's worth of pages
// using a worker pool. Results come back in input order regardless of which
// worker finished first.
type BatchProcessor struct {
	reader    *PageReader
	workers   int
	publisher observer.Subject
}

// NewBatchProcessor creates a batch processor with the given parallelism.
// A nil publisher disables event notification.
func NewBatchProcessor(reader *PageReader, workers int, publisher observer.Subject) *BatchProcessor {
	return &BatchProcessor{
		reader:    reader,
		workers:   workers,
		publisher: publisher,
	}
}

// ProcessPages reads every image file and runs it through the page pipeline.
// The returned slice is indexed like files. The first page error encountered
// (in input order) is returned after all workers drain.
func (b *BatchProcessor) ProcessPages(ctx context.Context, files []archive.ImageFile) ([]models.PageResult, error) {
	results := make([]models.PageResult, len(files))
	errs := make([]error, len(files))

	pool := NewWorkerPool(b.workers)
	pool.Start()
	defer pool.Close()

	var mu sync.Mutex
	for i, file := range files {
		i, file := i, file
		pool.Submit(func() {
			result, err := b.processPage(ctx, file)
			mu.Lock()
			results[i] = result
			errs[i] = err
			mu.Unlock()
		})
	}
	pool.Wait()

	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("page %d (%s): %w", files[i].Index, files[i].Filename, err)
		}
	}
	return results, nil
}

func (b *BatchProcessor) processPage(ctx context.Context, file archive.ImageFile) (models.PageResult, error) {
	start := time.Now()
	b.notify(ctx, observer.PageEvent{
		EventType:  observer.PageStarted,
		Timestamp:  start,
		Filename:   file.Filename,
		PageNumber: file.Index,
	})

	img, err := LoadPageImage(file.Path)
	if err == nil {
		var result models.PageResult
		result, err = b.reader.ReadPage(ctx, img, file.Filename, file.Index)
		if err == nil {
			b.notify(ctx, observer.PageEvent{
				EventType:      observer.PageCompleted,
				Timestamp:      time.Now(),
				Filename:       file.Filename,
				PageNumber:     file.Index,
				ProcessingTime: time.Since(start),
				RegionCount:    len(result.TextRegions),
				Success:        true,
			})
			return result, nil
		}
	}

	logger.WithError(err).WithPage(file.Filename, file.Index).Error("Page processing failed")
	b.notify(ctx, observer.PageEvent{
		EventType:      observer.PageFailed,
		Timestamp:      time.Now(),
		Filename:       file.Filename,
		PageNumber:     file.Index,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
	return models.PageResult{Filename: file.Filename, PageNumber: file.Index}, err
}

func (b *BatchProcessor) notify(ctx context.Context, event observer.PageEvent) {
	if b.publisher != nil {
		b.publisher.NotifyObservers(ctx, event)
	}
}

// LoadPageImage decodes a page image from disk. JPEG, PNG and WebP are
// registered; anything else fails with a processing error.
func LoadPageImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewProcessingError("failed to open page image", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, apperrors.NewProcessingError("failed to decode page image", err)
	}
	return img, nil
}
