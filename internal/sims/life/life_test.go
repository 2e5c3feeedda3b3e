package life

import (
	"testing"

	"liveiron/internal/automaton"
	"liveiron/internal/grid"
)

func newAutomaton(t *testing.T, rows [][]State, boundary grid.BoundaryCondition[State]) *automaton.Automaton[State] {
	t.Helper()

	board, err := grid.NewBoard(rows, boundary)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	neighbourhood, err := grid.NewNeighbourhood(grid.Moore, 1)
	if err != nil {
		t.Fatalf("new neighbourhood: %v", err)
	}
	a, err := automaton.New(automaton.Config[State]{
		Board:         board,
		Rules:         []automaton.Rule[State]{Rule{}},
		Neighbourhood: neighbourhood,
		Workers:       2,
	})
	if err != nil {
		t.Fatalf("new automaton: %v", err)
	}
	return a
}

func aliveCells(snap *grid.Snapshot[State]) map[grid.Coord]bool {
	cells := make(map[grid.Coord]bool)
	for r, row := range snap.Rows() {
		for c, state := range row {
			if state == Alive {
				cells[grid.Coord{Row: r, Col: c}] = true
			}
		}
	}
	return cells
}

func TestBlinkerOscillates(t *testing.T) {
	rows := EmptyRows(5, 5)
	Stamp(rows, grid.Coord{Row: 2, Col: 1}, Blinker())
	a := newAutomaton(t, rows, grid.Fixed(Dead))

	if err := a.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	vertical := aliveCells(a.Snapshot())
	want := map[grid.Coord]bool{
		{Row: 1, Col: 2}: true,
		{Row: 2, Col: 2}: true,
		{Row: 3, Col: 2}: true,
	}
	if len(vertical) != len(want) {
		t.Fatalf("unexpected cell count after one step: %d", len(vertical))
	}
	for c := range want {
		if !vertical[c] {
			t.Fatalf("expected %+v alive after one step", c)
		}
	}

	if err := a.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	horizontal := aliveCells(a.Snapshot())
	for _, c := range Blinker() {
		got := grid.Coord{Row: 2, Col: 1}.Add(c)
		if !horizontal[got] {
			t.Fatalf("expected %+v alive after two steps", got)
		}
	}
}

func TestGliderTranslates(t *testing.T) {
	rows := EmptyRows(10, 10)
	Stamp(rows, grid.Coord{Row: 1, Col: 1}, Glider())
	a := newAutomaton(t, rows, grid.Fixed(Dead))

	before := aliveCells(a.Snapshot())
	if err := a.Evolve(4); err != nil {
		t.Fatalf("evolve: %v", err)
	}
	after := aliveCells(a.Snapshot())

	if len(after) != len(before) {
		t.Fatalf("glider lost cells: before=%d after=%d", len(before), len(after))
	}
	for c := range before {
		moved := c.Add(grid.Coord{Row: 1, Col: 1})
		if !after[moved] {
			t.Fatalf("expected %+v alive after four steps", moved)
		}
	}
	if a.Generation() != 4 {
		t.Fatalf("unexpected generation: %d", a.Generation())
	}
}

func TestBlockIsStillLifeOnPeriodicBoard(t *testing.T) {
	rows := EmptyRows(6, 6)
	Stamp(rows, grid.Coord{Row: 2, Col: 2}, []grid.Coord{
		{Row: 0, Col: 0}, {Row: 0, Col: 1},
		{Row: 1, Col: 0}, {Row: 1, Col: 1},
	})
	a := newAutomaton(t, rows, grid.Periodic[State]())

	before := aliveCells(a.Snapshot())
	if err := a.Evolve(5); err != nil {
		t.Fatalf("evolve: %v", err)
	}
	after := aliveCells(a.Snapshot())

	if len(after) != len(before) {
		t.Fatalf("block changed size: before=%d after=%d", len(before), len(after))
	}
	for c := range before {
		if !after[c] {
			t.Fatalf("expected %+v to stay alive", c)
		}
	}
}
