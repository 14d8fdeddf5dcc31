package repository

import (
	"context"
	"image"
)

// PageRepository defines the interface for page image data access
type PageRepository interface {
	// FetchPage retrieves a page image from a URL
	FetchPage(ctx context.Context, pageURL string) (image.Image, error)

	// ValidatePageURL validates if the provided URL is acceptable
	ValidatePageURL(pageURL string) error
}
