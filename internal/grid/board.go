package grid

import "fmt"

// BoundaryKind selects how coordinates outside the board resolve.
type BoundaryKind int

const (
	// BoundaryFixed substitutes a designated background state for any
	// out-of-range coordinate.
	BoundaryFixed BoundaryKind = iota
	// BoundaryPeriodic wraps coordinates modulo the board dimensions.
	BoundaryPeriodic
)

func (k BoundaryKind) String() string {
	switch k {
	case BoundaryFixed:
		return "fixed"
	case BoundaryPeriodic:
		return "periodic"
	default:
		return fmt.Sprintf("boundary(%d)", int(k))
	}
}

// BoundaryCondition is the resolution policy for neighbour lookups that land
// outside [0,height) x [0,width). Background is only consulted for the fixed
// kind.
type BoundaryCondition[S State] struct {
	Kind       BoundaryKind
	Background S
}

// Fixed returns a boundary condition substituting background for every
// out-of-range coordinate.
func Fixed[S State](background S) BoundaryCondition[S] {
	return BoundaryCondition[S]{Kind: BoundaryFixed, Background: background}
}

// Periodic returns a wrap-around boundary condition.
func Periodic[S State]() BoundaryCondition[S] {
	return BoundaryCondition[S]{Kind: BoundaryPeriodic}
}

// Board is a dense row-major 2-D grid of cell states with a boundary
// condition. Dimensions never change after construction; the cell contents
// change only through Set and Replace.
type Board[S State] struct {
	width    int
	height   int
	boundary BoundaryCondition[S]
	cells    []S
}

// NewBoard builds a board from a rectangular initial grid. The grid must be
// non-empty and every row must have the same length.
func NewBoard[S State](initial [][]S, boundary BoundaryCondition[S]) (*Board[S], error) {
	cells, width, height, err := flatten(initial)
	if err != nil {
		return nil, err
	}
	return &Board[S]{
		width:    width,
		height:   height,
		boundary: boundary,
		cells:    cells,
	}, nil
}

func flatten[S State](rows [][]S) ([]S, int, int, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, 0, 0, ErrEmptyGrid
	}
	width := len(rows[0])
	cells := make([]S, 0, width*len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, 0, 0, fmt.Errorf("row %d has length %d, want %d: %w", i, len(row), width, ErrRaggedGrid)
		}
		cells = append(cells, row...)
	}
	return cells, width, len(rows), nil
}

func (b *Board[S]) Width() int                     { return b.width }
func (b *Board[S]) Height() int                    { return b.height }
func (b *Board[S]) Boundary() BoundaryCondition[S] { return b.boundary }

// Contains reports whether the coordinate lies inside the board proper,
// before any boundary resolution.
func (b *Board[S]) Contains(c Coord) bool {
	return c.Row >= 0 && c.Row < b.height && c.Col >= 0 && c.Col < b.width
}

// Get reads the state at the coordinate, resolving the boundary condition for
// out-of-range coordinates instead of failing.
func (b *Board[S]) Get(c Coord) S {
	state, _ := resolve(c, b.width, b.height, b.boundary, b.cells)
	return state
}

// Set writes the state at an in-range coordinate. Writes never go through
// boundary resolution.
func (b *Board[S]) Set(c Coord, state S) error {
	if !b.Contains(c) {
		return fmt.Errorf("set (%d,%d) on %dx%d board: %w", c.Row, c.Col, b.height, b.width, ErrOutOfRange)
	}
	b.cells[c.Row*b.width+c.Col] = state
	return nil
}

// Snapshot returns an immutable deep copy of the grid, used to freeze the
// prior generation during a step.
func (b *Board[S]) Snapshot() *Snapshot[S] {
	cells := make([]S, len(b.cells))
	copy(cells, b.cells)
	return &Snapshot[S]{
		width:    b.width,
		height:   b.height,
		boundary: b.boundary,
		cells:    cells,
	}
}

// Replace atomically swaps the entire grid for a new one of identical
// dimensions.
func (b *Board[S]) Replace(rows [][]S) error {
	cells, width, height, err := flatten(rows)
	if err != nil {
		return err
	}
	if width != b.width || height != b.height {
		return fmt.Errorf("replace with %dx%d grid on %dx%d board: %w", height, width, b.height, b.width, ErrDimensionMismatch)
	}
	b.cells = cells
	return nil
}

// ReplaceCells is Replace for a row-major buffer, the shape step computations
// produce. The buffer is adopted, not copied; callers must not retain it.
func (b *Board[S]) ReplaceCells(cells []S) error {
	if len(cells) != b.width*b.height {
		return fmt.Errorf("replace with %d cells on %dx%d board: %w", len(cells), b.height, b.width, ErrDimensionMismatch)
	}
	b.cells = cells
	return nil
}

// resolve maps a possibly out-of-range coordinate to a state under the given
// boundary condition. The boolean reports whether a stored cell (as opposed
// to the fixed background) was read.
func resolve[S State](c Coord, width, height int, bc BoundaryCondition[S], cells []S) (S, bool) {
	if c.Row >= 0 && c.Row < height && c.Col >= 0 && c.Col < width {
		return cells[c.Row*width+c.Col], true
	}
	if bc.Kind == BoundaryPeriodic {
		w := wrap(c, width, height)
		return cells[w.Row*width+w.Col], true
	}
	return bc.Background, false
}

// wrap applies toroidal wrapping to the coordinate.
func wrap(c Coord, width, height int) Coord {
	return Coord{
		Row: ((c.Row % height) + height) % height,
		Col: ((c.Col % width) + width) % width,
	}
}
