package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserverConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     ObserverConfig
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultObserverConfig()},
		{name: "zero band", cfg: ObserverConfig{}},
		{name: "header offset", cfg: ObserverConfig{DeadZoneTop: 120, DeadZoneBottomFraction: 0.66}},
		{name: "negative top", cfg: ObserverConfig{DeadZoneTop: -1}, wantErr: true},
		{name: "fraction one", cfg: ObserverConfig{DeadZoneBottomFraction: 1}, wantErr: true},
		{name: "negative fraction", cfg: ObserverConfig{DeadZoneBottomFraction: -0.1}, wantErr: true},
		{name: "nan fraction", cfg: ObserverConfig{DeadZoneBottomFraction: math.NaN()}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStaticArea(t *testing.T) {
	t.Parallel()

	var a Area = StaticArea{Row: 10, Rows: 4}
	assert.Equal(t, 10, a.Top())
	assert.Equal(t, 4, a.Height())
}
