// Package life implements Conway's Game of Life on a generic board.
package life

import (
	"liveiron/internal/automaton"
	"liveiron/internal/grid"
)

type State uint8

const (
	Dead State = iota
	Alive
)

func (s State) String() string {
	if s == Alive {
		return "alive"
	}
	return "dead"
}

// Rule applies the classic B3/S23 transition: a dead cell with exactly three
// live neighbours is born, a live cell with two or three survives, everything
// else dies.
type Rule struct{}

var _ automaton.Rule[State] = Rule{}

func (Rule) Name() string { return "conway" }

func (Rule) Next(cell grid.Cell[State], neighbours []grid.Cell[State]) State {
	alive := 0
	for _, n := range neighbours {
		if n.State == Alive {
			alive++
		}
	}
	switch {
	case cell.State == Alive && (alive == 2 || alive == 3):
		return Alive
	case cell.State == Dead && alive == 3:
		return Alive
	default:
		return Dead
	}
}

// EmptyRows returns an all-dead grid of the given dimensions.
func EmptyRows(width, height int) [][]State {
	rows := make([][]State, height)
	for i := range rows {
		rows[i] = make([]State, width)
	}
	return rows
}

// Stamp marks the given offsets alive, each translated by the origin. Offsets
// outside the grid are ignored.
func Stamp(rows [][]State, origin grid.Coord, offsets []grid.Coord) {
	for _, o := range offsets {
		c := origin.Add(o)
		if c.Row < 0 || c.Row >= len(rows) || c.Col < 0 || c.Col >= len(rows[c.Row]) {
			continue
		}
		rows[c.Row][c.Col] = Alive
	}
}

// Blinker is a period-two oscillator: three cells in a horizontal row.
func Blinker() []grid.Coord {
	return []grid.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}
}

// Glider is the smallest spaceship. It translates one cell down and one cell
// right every four generations.
func Glider() []grid.Coord {
	return []grid.Coord{
		{Row: 0, Col: 1},
		{Row: 1, Col: 2},
		{Row: 2, Col: 0},
		{Row: 2, Col: 1},
		{Row: 2, Col: 2},
	}
}

// RandomRows fills a grid of the given dimensions using fill as the alive
// probability, drawing from next, a function returning floats in [0,1).
func RandomRows(width, height int, fill float64, next func() float64) [][]State {
	rows := EmptyRows(width, height)
	for r := range rows {
		for c := range rows[r] {
			if next() < fill {
				rows[r][c] = Alive
			}
		}
	}
	return rows
}
