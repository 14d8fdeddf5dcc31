package repository

import "errors"

var (
	// ErrInvalidPageURL indicates an invalid page URL
	ErrInvalidPageURL = errors.New("invalid page URL")

	// ErrPageNotFound indicates the page image was not found
	ErrPageNotFound = errors.New("page image not found")
)
