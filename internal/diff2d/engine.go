// Package diff2d renders the difference between two equal-sized character
// grids in their original two dimensional layout.
//
// Every cell that is not within a configurable Chebyshev radius of a
// mismatching cell is replaced with a filler character, so what remains is
// the mismatch and its immediate surroundings (for example the walls of a
// maze around a misplaced player).
package diff2d

import (
	"errors"
	"fmt"

	"github.com/zinc-sig/gridiff/internal/grid"
)

// DefaultFiller is used when no filler is configured.
const DefaultFiller = '#'

// ShapeMismatchError is returned when the expected and actual grids do not
// contain the same number of cells, or have no usable row width.
type ShapeMismatchError struct {
	Expected int
	Actual   int
	Reason   string
}

func (e *ShapeMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("shape mismatch: %s", e.Reason)
	}
	return fmt.Sprintf("shape mismatch: expected %d cells, actual has %d", e.Expected, e.Actual)
}

// DiffGrid holds the three masked channels of a 2D diff. All channels have
// the shape of the expected input.
type DiffGrid struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Context  string `json:"context"`
}

// Config holds the knobs of the engine.
type Config struct {
	// Radius is how many unchanged cells to keep around each mismatch.
	Radius int
	// Filler replaces every cell outside the context window.
	Filler rune
}

// DefaultConfig returns a pure per-cell mask.
func DefaultConfig() Config {
	return Config{Radius: 0, Filler: DefaultFiller}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Radius < 0 {
		return fmt.Errorf("radius must be non-negative, got %d", c.Radius)
	}
	if c.Filler == 0 {
		return errors.New("filler character must be set")
	}
	return nil
}

// Engine generates 2D diffs with a fixed configuration. It holds no state
// between calls and is safe for concurrent use.
type Engine struct {
	config Config
}

// NewEngine creates an Engine after validating config.
func NewEngine(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid diff config: %w", err)
	}
	return &Engine{config: config}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Generate computes the 2D diff of expected and actual, carrying reference
// through the same mask.
func (e *Engine) Generate(expected, actual, reference string) (*DiffGrid, error) {
	return Generate(expected, actual, reference, e.config.Radius, e.config.Filler)
}

// Generate compares expected and actual cell by cell after flattening their
// rows, and keeps only the cells within radius of a mismatch in all three
// outputs. Row width is taken from the first line of expected. Cells of
// reference beyond its length are emitted as filler. A negative radius or
// an unset filler is rejected like in NewEngine.
func Generate(expected, actual, reference string, radius int, filler rune) (*DiffGrid, error) {
	if err := (Config{Radius: radius, Filler: filler}).Validate(); err != nil {
		return nil, fmt.Errorf("invalid diff config: %w", err)
	}

	expectedCells := grid.Flatten(expected)
	actualCells := grid.Flatten(actual)
	referenceCells := grid.Flatten(reference)

	if len(expectedCells) != len(actualCells) {
		return nil, &ShapeMismatchError{Expected: len(expectedCells), Actual: len(actualCells)}
	}
	if len(expectedCells) == 0 {
		return &DiffGrid{}, nil
	}

	width := grid.Width(expected)
	if width == 0 {
		return nil, &ShapeMismatchError{
			Expected: len(expectedCells),
			Actual:   len(actualCells),
			Reason:   "first row of expected is empty",
		}
	}

	hot := make(map[grid.Coordinate]struct{})
	for i := range expectedCells {
		if expectedCells[i] != actualCells[i] {
			hot[grid.At(i, width)] = struct{}{}
		}
	}

	n := len(expectedCells)
	outExpected := make([]rune, n)
	outActual := make([]rune, n)
	outContext := make([]rune, n)
	for i := range n {
		outExpected[i], outActual[i], outContext[i] = filler, filler, filler
		if len(hot) == 0 || !grid.At(i, width).NearAny(hot, radius) {
			continue
		}
		outExpected[i] = expectedCells[i]
		outActual[i] = actualCells[i]
		if i < len(referenceCells) {
			outContext[i] = referenceCells[i]
		}
	}

	return &DiffGrid{
		Expected: grid.Reshape(outExpected, width),
		Actual:   grid.Reshape(outActual, width),
		Context:  grid.Reshape(outContext, width),
	}, nil
}
