package grid

// State constrains the cell value types a Board can hold. The engine only
// ever copies and compares cell values; everything else about them is the
// caller's business.
type State interface {
	comparable
}

// Coord addresses a cell as (row, column), zero-based from the top-left.
type Coord struct {
	Row int
	Col int
}

// Add returns the coordinate offset by delta. No boundary resolution happens
// here; callers resolve the result against a board or snapshot.
func (c Coord) Add(delta Coord) Coord {
	return Coord{Row: c.Row + delta.Row, Col: c.Col + delta.Col}
}

// Cell pairs a coordinate with the state observed there.
type Cell[S State] struct {
	Coord Coord
	State S
}
