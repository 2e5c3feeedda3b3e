package genetic

import (
	"errors"
	"fmt"

	"liveiron/internal/grid"
)

var ErrBindingMismatch = errors.New("population size does not fit binding policy")

// Binding maps board cells onto population members for one generation. The
// mapping must be total (every cell binds to some member) and stable within a
// generation. Callers may supply their own policy.
type Binding interface {
	Name() string
	// Validate reports whether a population of the given size can cover a
	// width x height board.
	Validate(width, height, size int) error
	// Index returns the population index bound to the cell. Only called
	// with configurations Validate accepted.
	Index(c grid.Coord, width, height, size int) int
}

// RowMajorBinding binds exactly one genotype per cell in row-major order. The
// population size must equal the cell count.
type RowMajorBinding struct{}

func (RowMajorBinding) Name() string { return "row_major" }

func (RowMajorBinding) Validate(width, height, size int) error {
	if size != width*height {
		return fmt.Errorf("population of %d for %dx%d board (%d cells): %w", size, height, width, width*height, ErrBindingMismatch)
	}
	return nil
}

func (RowMajorBinding) Index(c grid.Coord, width, _, _ int) int {
	return c.Row*width + c.Col
}

// ModuloBinding tiles the population over the board in row-major order, so a
// small population can drive a large board. The population may not exceed the
// cell count, otherwise some members would go unbound.
type ModuloBinding struct{}

func (ModuloBinding) Name() string { return "modulo" }

func (ModuloBinding) Validate(width, height, size int) error {
	if size <= 0 || size > width*height {
		return fmt.Errorf("population of %d for %dx%d board (%d cells): %w", size, height, width, width*height, ErrBindingMismatch)
	}
	return nil
}

func (ModuloBinding) Index(c grid.Coord, width, _, size int) int {
	return (c.Row*width + c.Col) % size
}
