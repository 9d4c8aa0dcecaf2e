package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinate_DistanceTo(t *testing.T) {
	tests := []struct {
		name  string
		from  Coordinate
		to    Coordinate
		want  float64
		delta float64
	}{
		{
			name:  "same point",
			from:  Coordinate{Latitude: -23.5611, Longitude: -46.6564},
			to:    Coordinate{Latitude: -23.5611, Longitude: -46.6564},
			want:  0,
			delta: 0.001,
		},
		{
			name:  "one degree of latitude",
			from:  Coordinate{Latitude: 0, Longitude: 0},
			to:    Coordinate{Latitude: 1, Longitude: 0},
			want:  111195,
			delta: 10,
		},
		{
			name:  "paulista avenue to se cathedral",
			from:  Coordinate{Latitude: -23.561187293883442, Longitude: -46.656451388116494},
			to:    Coordinate{Latitude: -23.5505, Longitude: -46.6343},
			want:  2551,
			delta: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.from.DistanceTo(tt.to), tt.delta)
			assert.InDelta(t, tt.want, tt.to.DistanceTo(tt.from), tt.delta)
		})
	}
}
