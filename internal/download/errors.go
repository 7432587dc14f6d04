package download

import "errors"

var (
	// ErrRejected indicates a URL filtered out before any network call,
	// such as a placeholder asset or a non-image extension.
	ErrRejected = errors.New("url rejected")

	// ErrValidation indicates downloaded bytes that are not a recognized
	// image format. Never retried.
	ErrValidation = errors.New("image validation failed")

	// ErrIntegrity indicates a post-write verification failure: the stored
	// object is missing or its size differs from the downloaded payload.
	ErrIntegrity = errors.New("stored image integrity check failed")
)
