package errx

import (
	"errors"
	"fmt"
)

var (
	// ErrNoImageReturned indicates a create/edit call produced no binary part.
	// Terminal: the orchestrator must not retry.
	ErrNoImageReturned = errors.New("no image data returned")

	// ErrMissingResultURI indicates a video job finished without a result URI.
	// Terminal: the orchestrator must not retry.
	ErrMissingResultURI = errors.New("video generation returned no result uri")
)

// GenerationError is the single failure type surfaced by the model gateway.
// It wraps any transport or service level failure so provider specific error
// types never leak to the orchestrators.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return GenerationErrorMessage
	}
	return fmt.Sprintf("%s: %v", GenerationErrorMessage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// WrapGeneration wraps err into a GenerationError, or returns nil for nil.
// Already-wrapped errors pass through unchanged.
func WrapGeneration(err error) error {
	if err == nil {
		return nil
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &GenerationError{Err: err}
}

// IsGeneration reports whether err is (or wraps) a GenerationError.
func IsGeneration(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// DeviceNotFoundError reports that a device name query resolved to no
// registered device.
type DeviceNotFoundError struct {
	Query string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("no device matching %q", e.Query)
}
