package domain

import "errors"

var (
	// ErrInvalidIdentifier is returned for owner keys that cannot appear in a public URL.
	ErrInvalidIdentifier = errors.New("invalid owner identifier")
	// ErrNotFound is returned when no profile document exists for the owner.
	ErrNotFound = errors.New("profile not found")
	// ErrStoreUnavailable wraps transient read/write failures of the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrCounterUpdateFailed wraps failures of the visit counter increment.
	ErrCounterUpdateFailed = errors.New("counter update failed")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidReviewURL    = errors.New("invalid review URL")
)
