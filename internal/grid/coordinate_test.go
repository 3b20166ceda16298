package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinateNearBy(t *testing.T) {
	origin := Coordinate{X: 3, Y: 3}

	tests := []struct {
		name   string
		other  Coordinate
		radius int
		want   bool
	}{
		{name: "same cell radius zero", other: Coordinate{3, 3}, radius: 0, want: true},
		{name: "neighbour radius zero", other: Coordinate{4, 3}, radius: 0, want: false},
		{name: "diagonal radius one", other: Coordinate{4, 4}, radius: 1, want: true},
		{name: "chebyshev not manhattan", other: Coordinate{5, 5}, radius: 2, want: true},
		{name: "one axis too far", other: Coordinate{3, 6}, radius: 2, want: false},
		{name: "negative direction", other: Coordinate{1, 2}, radius: 2, want: true},
		{name: "negative radius", other: Coordinate{3, 3}, radius: -1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, origin.NearBy(tt.other, tt.radius))
			assert.Equal(t, tt.want, tt.other.NearBy(origin, tt.radius), "NearBy must be symmetric")
		})
	}
}

func TestCoordinateNearAny(t *testing.T) {
	hot := map[Coordinate]struct{}{
		{X: 0, Y: 0}: {},
		{X: 9, Y: 9}: {},
	}

	assert.True(t, Coordinate{X: 1, Y: 1}.NearAny(hot, 1))
	assert.True(t, Coordinate{X: 8, Y: 9}.NearAny(hot, 1))
	assert.False(t, Coordinate{X: 5, Y: 5}.NearAny(hot, 1))
	assert.False(t, Coordinate{X: 0, Y: 0}.NearAny(nil, 10))
}

func TestAt(t *testing.T) {
	assert.Equal(t, Coordinate{X: 0, Y: 0}, At(0, 4))
	assert.Equal(t, Coordinate{X: 3, Y: 0}, At(3, 4))
	assert.Equal(t, Coordinate{X: 1, Y: 2}, At(9, 4))
}

func TestCoordinateAsMapKey(t *testing.T) {
	set := map[Coordinate]struct{}{}
	set[Coordinate{X: 5, Y: 0}] = struct{}{}
	set[Coordinate{X: 0, Y: 5}] = struct{}{}
	set[Coordinate{X: 5, Y: 0}] = struct{}{}

	assert.Len(t, set, 2)
}
