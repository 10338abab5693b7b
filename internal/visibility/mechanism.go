package visibility

import "github.com/tinytelemetry/scrollspy/internal/model"

// Entry is one intersection change reported by a Mechanism.
type Entry struct {
	ID           string
	Intersecting bool
}

// Margin grows (positive) or shrinks (negative) the root viewport before
// intersections are computed, like a CSS root margin.
type Margin struct {
	TopPx         int
	BottomPercent float64
}

// Options configures one observation.
type Options struct {
	Margin Margin
	// Threshold is the visible fraction a target needs before it counts as
	// intersecting. Zero means any row inside the band.
	Threshold float64
}

// Mechanism is the platform's viewport-intersection facility. Batches are
// delivered on the caller's goroutine, in the order the platform chooses.
type Mechanism interface {
	Observe(opts Options, targets []model.Region, deliver func([]Entry)) error
	Unobserve(id string)
	Disconnect()
}

// OptionsFor derives mechanism options from an observer config: the top
// margin cuts DeadZoneTop rows, the bottom margin cuts the configured share
// of the viewport height, and the threshold is zero.
func OptionsFor(cfg model.ObserverConfig) Options {
	return Options{
		Margin: Margin{
			TopPx:         -cfg.DeadZoneTop,
			BottomPercent: -(cfg.DeadZoneBottomFraction * 100),
		},
		Threshold: 0,
	}
}
