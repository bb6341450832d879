package storage

import "errors"

// Sentinel errors shared by every store implementation. Trade, latency and
// report records are immutable once written, so a key collision is always
// an error rather than an update.
var (
	// ErrNotFound is returned when the requested trade, latency record or
	// report does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when an insert collides with an existing
	// record ID. Records are never overwritten.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when a record fails validation before it
	// reaches the backend.
	ErrInvalidInput = errors.New("invalid input")
)
