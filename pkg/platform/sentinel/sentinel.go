// Package sentinel holds store-level facts. Stores return them, optionally
// wrapped, and services translate them into domain errors.
package sentinel

import "errors"

var (
	// ErrConflict means a record for the same business key already exists.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable means the backing store could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
