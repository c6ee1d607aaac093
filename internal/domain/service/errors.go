package service

import "errors"

var (
	// ErrModelUnavailable: the artifact is missing or unreadable.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrModelCorrupt: the artifact exists but could not be decoded.
	ErrModelCorrupt = errors.New("model corrupt")
	// ErrPredictionFailure: inference failed or returned an unusable result.
	ErrPredictionFailure = errors.New("prediction failed")
	// ErrInvalidInput: raw input rejected at the boundary; the core was not invoked.
	ErrInvalidInput = errors.New("invalid input")
)

// IsModelAbsent reports whether err means no model handle is available.
func IsModelAbsent(err error) bool {
	return errors.Is(err, ErrModelUnavailable) || errors.Is(err, ErrModelCorrupt)
}
