// Package ant implements Langton's ant as a per-cell transition rule. Each
// cell decides its own next state from the frozen snapshot: a cell carrying
// an ant flips its colour, and a cell gains an ant when a neighbour's ant
// turns toward it.
package ant

import (
	"liveiron/internal/automaton"
	"liveiron/internal/grid"
)

type Colour uint8

const (
	White Colour = iota
	Black
)

// Heading is the direction an ant faces. NoAnt marks an empty cell.
type Heading uint8

const (
	NoAnt Heading = iota
	Up
	Right
	Down
	Left
)

type State struct {
	Colour Colour
	Ant    Heading
}

// Rule needs the board dimensions to recognise arrivals across a periodic
// seam, where neighbour coordinates wrap.
type Rule struct {
	Width  int
	Height int
}

var _ automaton.Rule[State] = Rule{}

func (Rule) Name() string { return "langton_ant" }

func (r Rule) Next(cell grid.Cell[State], neighbours []grid.Cell[State]) State {
	next := State{Colour: cell.State.Colour}
	if cell.State.Ant != NoAnt {
		next.Colour = flip(cell.State.Colour)
	}
	for _, n := range neighbours {
		if n.State.Ant == NoAnt {
			continue
		}
		heading := turn(n.State.Ant, n.State.Colour)
		if r.offset(cell.Coord, n.Coord) == delta(heading) {
			next.Ant = heading
		}
	}
	return next
}

func flip(c Colour) Colour {
	if c == White {
		return Black
	}
	return White
}

// turn rotates clockwise on white and counter-clockwise on black.
func turn(h Heading, c Colour) Heading {
	clockwise := [5]Heading{NoAnt, Right, Down, Left, Up}
	counter := [5]Heading{NoAnt, Left, Up, Right, Down}
	if c == White {
		return clockwise[h]
	}
	return counter[h]
}

func delta(h Heading) grid.Coord {
	switch h {
	case Up:
		return grid.Coord{Row: -1, Col: 0}
	case Right:
		return grid.Coord{Row: 0, Col: 1}
	case Down:
		return grid.Coord{Row: 1, Col: 0}
	case Left:
		return grid.Coord{Row: 0, Col: -1}
	default:
		return grid.Coord{}
	}
}

// offset is to - from, with each component folded back into [-1, 1] so a
// step across a periodic seam still reads as a unit move.
func (r Rule) offset(to, from grid.Coord) grid.Coord {
	d := grid.Coord{Row: to.Row - from.Row, Col: to.Col - from.Col}
	if d.Row > 1 {
		d.Row -= r.Height
	}
	if d.Row < -1 {
		d.Row += r.Height
	}
	if d.Col > 1 {
		d.Col -= r.Width
	}
	if d.Col < -1 {
		d.Col += r.Width
	}
	return d
}

// EmptyRows returns an all-white, ant-free grid.
func EmptyRows(width, height int) [][]State {
	rows := make([][]State, height)
	for i := range rows {
		rows[i] = make([]State, width)
	}
	return rows
}

// Place puts an ant with the given heading on the grid.
func Place(rows [][]State, c grid.Coord, heading Heading) {
	rows[c.Row][c.Col].Ant = heading
}
