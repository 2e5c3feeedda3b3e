package grid

import "fmt"

// Snapshot is a frozen, read-only copy of a board's grid. Steps read
// exclusively from a snapshot so no cell ever observes a neighbour that was
// already updated within the same generation.
type Snapshot[S State] struct {
	width    int
	height   int
	boundary BoundaryCondition[S]
	cells    []S
}

// SnapshotFromCells wraps a row-major buffer in a read-only snapshot. The
// buffer is copied.
func SnapshotFromCells[S State](cells []S, width, height int, boundary BoundaryCondition[S]) (*Snapshot[S], error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("%d cells for %dx%d snapshot: %w", len(cells), height, width, ErrDimensionMismatch)
	}
	copied := make([]S, len(cells))
	copy(copied, cells)
	return &Snapshot[S]{width: width, height: height, boundary: boundary, cells: copied}, nil
}

func (s *Snapshot[S]) Width() int                     { return s.width }
func (s *Snapshot[S]) Height() int                    { return s.height }
func (s *Snapshot[S]) Boundary() BoundaryCondition[S] { return s.boundary }

// Get reads the state at the coordinate with the same boundary resolution as
// Board.Get.
func (s *Snapshot[S]) Get(c Coord) S {
	state, _ := resolve(c, s.width, s.height, s.boundary, s.cells)
	return state
}

// Rows exports the grid as a fresh 2-D slice, the shape presentation layers
// consume.
func (s *Snapshot[S]) Rows() [][]S {
	rows := make([][]S, s.height)
	for r := 0; r < s.height; r++ {
		row := make([]S, s.width)
		copy(row, s.cells[r*s.width:(r+1)*s.width])
		rows[r] = row
	}
	return rows
}
