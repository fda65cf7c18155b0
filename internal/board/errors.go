package board

import "errors"

// Callers should match these with errors.Is; stores and the service wrap
// them with context.
var (
	// ErrValidation rejects input before any log is touched.
	ErrValidation = errors.New("validation error")

	ErrNotFound = errors.New("not found")

	// ErrStorage means a log could not be read or written. It is never
	// reported as an empty result.
	ErrStorage = errors.New("storage error")

	// ErrStale rejects a position-indexed delete whose target moved.
	ErrStale = errors.New("stale position")

	// ErrConflict reports a truncated-hash id already taken by another record.
	ErrConflict = errors.New("id conflict")

	ErrPermission = errors.New("permission denied")
)
