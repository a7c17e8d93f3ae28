package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the asset API answers 404
var ErrNotFound = errors.New("not found")

// APIError is a non 2xx answer of the asset API
type APIError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("asset api: status %d: %s (%s)", e.StatusCode, e.Message, e.Field)
	}
	return fmt.Sprintf("asset api: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// UploadError is a failed direct post to cloudinary
type UploadError struct {
	StatusCode int
	Message    string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("cloudinary upload: status %d: %s", e.StatusCode, e.Message)
}
