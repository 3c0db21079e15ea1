package store

import "errors"

var (
	// ErrNotFound is returned when an operation references an absent id.
	// Callers in the engine treat it as a no-op.
	ErrNotFound = errors.New("media item not found")

	// ErrInvalidRange is returned for inverted, negative or non-finite
	// video time ranges. The stored range is left unchanged.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrInvalidDimensions is returned for negative or non-finite sizes.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrNotVideo is returned when a time range is applied to an image.
	ErrNotVideo = errors.New("time range applies to video items only")

	// ErrUnsupportedKind is returned for kinds other than video and image.
	ErrUnsupportedKind = errors.New("unsupported media kind")
)
