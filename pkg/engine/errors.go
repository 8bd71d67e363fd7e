package engine

import "errors"

var (
	// ErrNotFound indicates a referenced employee, phase, or project id did
	// not resolve in the store.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a request was malformed (hours out of range,
	// inverted date window) and was rejected before any evaluator ran.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates the store adapter failed to return data.
	// The engine does not retry; that policy belongs to the adapter.
	ErrStoreUnavailable = errors.New("store unavailable")
)
