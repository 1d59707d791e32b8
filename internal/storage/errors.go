package storage

import "errors"

var (
	ErrPreviewNotFound = errors.New("preview not found")
	ErrInvalidData     = errors.New("invalid data")
)
