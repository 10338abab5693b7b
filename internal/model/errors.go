package model

import "errors"

var (
	// ErrInvalidArgument reports an empty or duplicate region set, or a bad
	// observer configuration.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound reports a navigation target that is not tracked.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable reports a command sent before the reader is running.
	ErrUnavailable = errors.New("reader unavailable")
)
