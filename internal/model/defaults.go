package model

import "time"

// Shared defaults used by the library packages and the CLI.
const (
	// DefaultSuppressDuration is a heuristic: terminals, like browsers, give
	// no reliable signal that a programmatic scroll has settled.
	DefaultSuppressDuration = 1000 * time.Millisecond
	DefaultDeadZoneTop      = 2
	DefaultDeadZoneBottom   = 0.66
	DefaultHeadingLevel     = 2
	DefaultSmoothFrames     = 8
	DefaultCodeStyle        = "monokai"
)
