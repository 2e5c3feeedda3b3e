package ant

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
	neighbourhood, err := grid.NewNeighbourhood(grid.VonNeumann, 1)
	if err != nil {
		t.Fatalf("new neighbourhood: %v", err)
	}
	a, err := automaton.New(automaton.Config[State]{
		Board:         board,
		Rules:         []automaton.Rule[State]{Rule{Width: board.Width(), Height: board.Height()}},
		Neighbourhood: neighbourhood,
	})
	if err != nil {
		t.Fatalf("new automaton: %v", err)
	}
	return a
}

func findAnt(snap *grid.Snapshot[State]) (grid.Coord, Heading, bool) {
	for r, row := range snap.Rows() {
		for c, state := range row {
			if state.Ant != NoAnt {
				return grid.Coord{Row: r, Col: c}, state.Ant, true
			}
		}
	}
	return grid.Coord{}, NoAnt, false
}

func TestAntFirstFourSteps(t *testing.T) {
	rows := EmptyRows(7, 7)
	Place(rows, grid.Coord{Row: 3, Col: 3}, Up)
	a := newAutomaton(t, rows, grid.Fixed(State{}))

	// On white the ant turns clockwise, flips the square and moves forward.
	want := []struct {
		pos     grid.Coord
		heading Heading
	}{
		{grid.Coord{Row: 3, Col: 4}, Right},
		{grid.Coord{Row: 4, Col: 4}, Down},
		{grid.Coord{Row: 4, Col: 3}, Left},
		{grid.Coord{Row: 3, Col: 3}, Up},
	}
	for i, step := range want {
		if err := a.Step(); err != nil {
			t.Fatalf("step %d: %v", i+1, err)
		}
		pos, heading, ok := findAnt(a.Snapshot())
		if !ok {
			t.Fatalf("step %d: ant vanished", i+1)
		}
		if pos != step.pos || heading != step.heading {
			t.Fatalf("step %d: got %+v facing %d, want %+v facing %d", i+1, pos, heading, step.pos, step.heading)
		}
	}

	// After four steps the trail is the 2x2 block the ant just walked.
	snap := a.Snapshot()
	for _, c := range []grid.Coord{{Row: 3, Col: 3}, {Row: 3, Col: 4}, {Row: 4, Col: 4}, {Row: 4, Col: 3}} {
		if snap.Get(c).Colour != Black {
			t.Fatalf("expected %+v black", c)
		}
	}
}

func TestAntTurnsLeftOnBlack(t *testing.T) {
	rows := EmptyRows(7, 7)
	rows[3][3].Colour = Black
	Place(rows, grid.Coord{Row: 3, Col: 3}, Up)
	a := newAutomaton(t, rows, grid.Fixed(State{}))

	if err := a.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	pos, heading, ok := findAnt(a.Snapshot())
	if !ok {
		t.Fatal("ant vanished")
	}
	if (pos != grid.Coord{Row: 3, Col: 2}) || heading != Left {
		t.Fatalf("got %+v facing %d, want (3,2) facing left", pos, heading)
	}
	if a.Snapshot().Get(grid.Coord{Row: 3, Col: 3}).Colour != White {
		t.Fatal("expected departed square flipped back to white")
	}
}

func TestAntWrapsAcrossPeriodicSeam(t *testing.T) {
	rows := EmptyRows(5, 5)
	Place(rows, grid.Coord{Row: 2, Col: 0}, Down)
	a := newAutomaton(t, rows, grid.Periodic[State]())

	if err := a.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	pos, heading, ok := findAnt(a.Snapshot())
	if !ok {
		t.Fatal("ant vanished")
	}
	if (pos != grid.Coord{Row: 2, Col: 4}) || heading != Left {
		t.Fatalf("got %+v facing %d, want (2,4) facing left", pos, heading)
	}
}

func TestAntWalksOffFixedBoard(t *testing.T) {
	rows := EmptyRows(5, 5)
	Place(rows, grid.Coord{Row: 2, Col: 0}, Down)
	a := newAutomaton(t, rows, grid.Fixed(State{}))

	if err := a.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if _, _, ok := findAnt(a.Snapshot()); ok {
		t.Fatal("expected ant to leave the board")
	}
}
