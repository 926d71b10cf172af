package store

import "errors"

var (
	// ErrStaleRevision is returned when a document changed between load and save.
	ErrStaleRevision = errors.New("store: stale revision")
	// ErrParse marks stored content that could not be decoded.
	ErrParse = errors.New("store: cannot parse stored collection")
)
