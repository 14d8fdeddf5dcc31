package container

import (
	"fmt"
	"net/http"

	"go-manga-reader/internal/config"
	"go-manga-reader/internal/detector"
	"go-manga-reader/internal/logger"
	"go-manga-reader/internal/pipeline"
	"go-manga-reader/internal/recognizer"
	"go-manga-reader/internal/repository"
	"go-manga-reader/internal/storage"
	"go-manga-reader/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config         *config.Config
	pageFetcher    storage.ImageFetcher
	pageRepository repository.PageRepository
	detector       detector.Detector
	recognizer     recognizer.Recognizer
	pageReader     *pipeline.PageReader
	handler        http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Build dependency graph
	pageFetcher := storage.NewHTTPImageFetcher(cfg.FetchTimeout)

	var blobStore storage.BlobStorage
	if cfg.BlobStorageEnabled() {
		var err error
		blobStore, err = storage.NewAzureStorage(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to init blob storage: %w", err)
		}
	}
	pageRepository := repository.NewPageRepository(pageFetcher, blobStore)

	det, err := detector.NewTesseractDetector(cfg.OCRLanguage)
	if err != nil {
		return nil, fmt.Errorf("failed to init detector: %w", err)
	}
	rec, err := recognizer.NewTesseractRecognizer(cfg.OCRLanguage, nil)
	if err != nil {
		det.Close()
		return nil, fmt.Errorf("failed to init recognizer: %w", err)
	}

	pageReader := pipeline.NewPageReader(det, rec)
	handler := transport.NewHandler(pageReader, pageRepository, cfg)

	return &Container{
		config:         cfg,
		pageFetcher:    pageFetcher,
		pageRepository: pageRepository,
		detector:       det,
		recognizer:     rec,
		pageReader:     pageReader,
		handler:        handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// PageReader returns the configured page reader
func (c *Container) PageReader() *pipeline.PageReader {
	return c.pageReader
}

// Close releases the OCR clients
func (c *Container) Close() {
	if err := c.recognizer.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close recognizer")
	}
	if err := c.detector.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close detector")
	}
}
