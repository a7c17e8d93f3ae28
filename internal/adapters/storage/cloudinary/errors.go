package cloudinary

import (
	"cloudinary-assets/internal/core/domain"
	"errors"
	"fmt"
	"io"
)

// RemoteError is a non-2xx cloudinary response
type RemoteError struct {
	Operation  string
	StatusCode int
	Message    string
	Body       string
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("cloudinary %s failed: %s", e.Operation, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("cloudinary %s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("cloudinary %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

func (e *RemoteError) Unwrap() error {
	return domain.ErrRemote
}

// ResponseTooLargeError reports that the response body exceeded the limit.
type ResponseTooLargeError struct {
	Limit int64
}

func (e ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response body exceeded limit of %d bytes", e.Limit)
}

// IsResponseTooLarge reports whether the error indicates a response limit violation.
func IsResponseTooLarge(err error) bool {
	var limitErr ResponseTooLargeError
	return errors.As(err, &limitErr)
}

// readAllWithLimit reads the response body up to the provided limit.
// If limit <= 0, it behaves like io.ReadAll.
func readAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	lr := &io.LimitedReader{R: r, N: limit + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ResponseTooLargeError{Limit: limit}
	}
	return data, nil
}
