package grid

// Coordinate is a cell position in a grid. X is the column, Y the row.
// It is comparable and is used directly as a map key.
type Coordinate struct {
	X int
	Y int
}

// At converts an index into a flattened grid of the given width into a Coordinate.
func At(index, width int) Coordinate {
	return Coordinate{X: index % width, Y: index / width}
}

// NearBy reports whether other lies within radius of c on both axes
// (Chebyshev distance <= radius).
func (c Coordinate) NearBy(other Coordinate, radius int) bool {
	return abs(c.X-other.X) <= radius && abs(c.Y-other.Y) <= radius
}

// NearAny reports whether c is NearBy any coordinate in the set.
func (c Coordinate) NearAny(set map[Coordinate]struct{}, radius int) bool {
	for p := range set {
		if c.NearBy(p, radius) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
