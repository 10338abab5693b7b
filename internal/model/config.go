package model

import (
	"fmt"
	"math"
)

// ObserverConfig defines the watch band inside the viewport.
// A region only counts as entering view once it crosses below DeadZoneTop
// rows from the top and above DeadZoneBottomFraction of the viewport height
// measured from the bottom.
type ObserverConfig struct {
	DeadZoneTop            int     `mapstructure:"dead-zone-top"`
	DeadZoneBottomFraction float64 `mapstructure:"dead-zone-bottom"`
}

// DefaultObserverConfig returns the band used when nothing is configured.
func DefaultObserverConfig() ObserverConfig {
	return ObserverConfig{
		DeadZoneTop:            DefaultDeadZoneTop,
		DeadZoneBottomFraction: DefaultDeadZoneBottom,
	}
}

// Validate checks the band bounds.
func (c ObserverConfig) Validate() error {
	if c.DeadZoneTop < 0 {
		return fmt.Errorf("dead zone top %d is negative: %w", c.DeadZoneTop, ErrInvalidArgument)
	}
	f := c.DeadZoneBottomFraction
	if math.IsNaN(f) || f < 0 || f >= 1 {
		return fmt.Errorf("dead zone bottom fraction %v outside [0,1): %w", f, ErrInvalidArgument)
	}
	return nil
}
