package repository

import (
	"context"
	"image"
	"net/url"
	"strings"

	"go-manga-reader/internal/storage"
	"go-manga-reader/pkg/validation"
)

// pageRepository fetches pages over HTTP, or from Azure blob storage when the
// URL points at a blob endpoint and blob storage is configured.
type pageRepository struct {
	fetcher   storage.ImageFetcher
	blobStore storage.BlobStorage
	validator *validation.URLValidator
}

// NewPageRepository creates a page repository. blobStore may be nil, in which
// case blob URLs are fetched over plain HTTP like any other URL.
func NewPageRepository(fetcher storage.ImageFetcher, blobStore storage.BlobStorage) PageRepository {
	return &pageRepository{
		fetcher:   fetcher,
		blobStore: blobStore,
		validator: validation.NewURLValidator(),
	}
}

// FetchPage retrieves a page image from a URL
func (r *pageRepository) FetchPage(ctx context.Context, pageURL string) (image.Image, error) {
	if r.blobStore != nil && isBlobURL(pageURL) {
		return r.blobStore.GetImage(ctx, pageURL)
	}
	return r.fetcher.FetchImage(ctx, pageURL)
}

// ValidatePageURL validates if the provided URL is acceptable
func (r *pageRepository) ValidatePageURL(pageURL string) error {
	return r.validator.ValidatePageURL(pageURL)
}

func isBlobURL(pageURL string) bool {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsed.Hostname(), ".blob.core.windows.net")
}
