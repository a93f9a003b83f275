package posts

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("post not found")
	ErrImageRequired    = errors.New("image is required")
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// ValidationError reports which required fields were missing from a request.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
