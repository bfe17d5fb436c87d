package badge

import "errors"

var (
	// ErrNotInitialized is returned when an operation requires an
	// initialized node.
	ErrNotInitialized = errors.New("badge: node not initialized")

	// ErrAlreadyStarted is returned when Start() is called on a running node.
	ErrAlreadyStarted = errors.New("badge: node already started")

	// ErrNotStarted is returned when an operation requires a running node.
	ErrNotStarted = errors.New("badge: node not started")

	// ErrAlreadyStopped is returned when Stop() is called on a stopped node.
	ErrAlreadyStopped = errors.New("badge: node already stopped")

	// ErrInvalidConfig is returned when Config validation fails.
	ErrInvalidConfig = errors.New("badge: invalid configuration")
)
