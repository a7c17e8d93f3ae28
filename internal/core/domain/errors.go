package domain

import (
	"errors"
	"fmt"
)

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")

// ErrAssetNotFound is an error thrown when no asset record matches a public id
var ErrAssetNotFound = errors.New("asset not found")

// ErrMissingCredentials is an error thrown when the cloud name, api key or api secret is absent
var ErrMissingCredentials = errors.New("missing cloudinary credentials")

// ErrValidation is the parent of every input validation error
var ErrValidation = errors.New("validation failed")

// ErrInvalidFileData is an error thrown when an upload payload is not a base64 data URI
var ErrInvalidFileData = errors.New("invalid file data")

// ErrUnsupportedMimeType is an error thrown when a payload is not an allowed image type
var ErrUnsupportedMimeType = errors.New("unsupported mime type")

// ErrFileTooLarge is an error thrown when a payload exceeds the configured size
var ErrFileTooLarge = errors.New("file too large")

// ErrInvalidTransition is an error thrown when an upload status change is not allowed
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrSignatureMismatch is an error thrown when a cloudinary response signature does not verify
var ErrSignatureMismatch = errors.New("signature mismatch")

// ErrRemote is the parent of every non-2xx cloudinary response
var ErrRemote = errors.New("cloudinary request failed")

// ErrRemoteAssetMissing is an error thrown when the remote asset does not exist
var ErrRemoteAssetMissing = errors.New("remote asset missing")

// ErrMalformedEvent is an error thrown when an asset event cannot be decoded, redelivery cannot fix it
var ErrMalformedEvent = errors.New("malformed asset event")

// ValidationError reports an invalid input field
type ValidationError struct {
	Field   string
	Message string
	Kind    error
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field string, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// WithKind attaches a more specific sentinel
func (e *ValidationError) WithKind(kind error) *ValidationError {
	e.Kind = kind
	return e
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() []error {
	if e.Kind != nil {
		return []error{ErrValidation, e.Kind}
	}
	return []error{ErrValidation}
}
