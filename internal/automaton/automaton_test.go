package automaton

import (
	"context"
	"errors"
	"testing"
	"time"

	"liveiron/internal/grid"
)

func intBoard(t *testing.T, rows [][]int, boundary grid.BoundaryCondition[int]) *grid.Board[int] {
	t.Helper()

	board, err := grid.NewBoard(rows, boundary)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	return board
}

func moore(t *testing.T) *grid.Neighbourhood {
	t.Helper()

	n, err := grid.NewNeighbourhood(grid.Moore, 1)
	if err != nil {
		t.Fatalf("new neighbourhood: %v", err)
	}
	return n
}

func constRule(name string, value int) Rule[int] {
	return RuleFunc[int]{RuleName: name, Fn: func(grid.Cell[int], []grid.Cell[int]) int {
		return value
	}}
}

func TestNewValidatesConfig(t *testing.T) {
	board := intBoard(t, [][]int{{0}}, grid.Fixed(0))

	if _, err := New(Config[int]{Rules: []Rule[int]{constRule("one", 1)}, Neighbourhood: moore(t)}); err == nil {
		t.Fatal("expected error for missing board")
	}
	if _, err := New(Config[int]{Board: board, Neighbourhood: moore(t)}); !errors.Is(err, ErrNoRules) {
		t.Fatalf("expected ErrNoRules, got: %v", err)
	}
	if _, err := New(Config[int]{Board: board, Rules: []Rule[int]{nil}, Neighbourhood: moore(t)}); err == nil {
		t.Fatal("expected error for nil rule")
	}
	if _, err := New(Config[int]{Board: board, Rules: []Rule[int]{constRule("one", 1)}}); err == nil {
		t.Fatal("expected error for missing neighbourhood")
	}
}

func TestStepReadsOnlyTheFrozenSnapshot(t *testing.T) {
	// Every cell copies its left neighbour. On a periodic board this rotates
	// each row right by one; any cell reading an already-updated neighbour
	// would break the rotation.
	board := intBoard(t, [][]int{{1, 2, 3, 4}}, grid.Periodic[int]())
	shift := RuleFunc[int]{RuleName: "shift_right", Fn: func(cell grid.Cell[int], neighbours []grid.Cell[int]) int {
		for _, n := range neighbours {
			if n.Coord.Row == cell.Coord.Row && (n.Coord.Col+1)%4 == cell.Coord.Col {
				return n.State
			}
		}
		return cell.State
	}}

	a, err := New(Config[int]{Board: board, Rules: []Rule[int]{shift}, Neighbourhood: moore(t), Workers: 3})
	if err != nil {
		t.Fatalf("new automaton: %v", err)
	}
	if err := a.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}

	want := []int{4, 1, 2, 3}
	got := a.Snapshot().Rows()[0]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rotation broken: got %v, want %v", got, want)
		}
	}
}

func TestRulesApplyInOrderWithOverride(t *testing.T) {
	board := intBoard(t, [][]int{{0, 0}, {0, 0}}, grid.Fixed(0))
	a, err := New(Config[int]{
		Board:         board,
		Rules:         []Rule[int]{constRule("first", 1), constRule("second", 2)},
		Neighbourhood: moore(t),
	})
	if err != nil {
		t.Fatalf("new automaton: %v", err)
	}
	if err := a.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}

	for _, row := range a.Snapshot().Rows() {
		for _, state := range row {
			if state != 2 {
				t.Fatalf("last rule did not win: %d", state)
			}
		}
	}
}

func TestEvolveCountsGenerations(t *testing.T) {
	board := intBoard(t, [][]int{{0}}, grid.Fixed(0))
	a, err := New(Config[int]{Board: board, Rules: []Rule[int]{constRule("noop", 0)}, Neighbourhood: moore(t)})
	if err != nil {
		t.Fatalf("new automaton: %v", err)
	}

	if err := a.Evolve(7); err != nil {
		t.Fatalf("evolve: %v", err)
	}
	if a.Generation() != 7 {
		t.Fatalf("unexpected generation: %d", a.Generation())
	}
}

func TestVisualiseDeliversFramesAndStopsOnSinkError(t *testing.T) {
	board := intBoard(t, [][]int{{0}}, grid.Fixed(0))
	a, err := New(Config[int]{Board: board, Rules: []Rule[int]{constRule("noop", 0)}, Neighbourhood: moore(t)})
	if err != nil {
		t.Fatalf("new automaton: %v", err)
	}

	var seen []int
	sinkErr := errors.New("sink full")
	err = a.Visualise(context.Background(), 10, 0, func(frame Frame[int]) error {
		seen = append(seen, frame.Generation)
		if frame.Generation == 3 {
			return sinkErr
		}
		return nil
	})
	if !errors.Is(err, sinkErr) {
		t.Fatalf("expected sink error, got: %v", err)
	}
	if len(seen) != 3 {
		t.Fatalf("unexpected frames: %v", seen)
	}
}

func TestVisualiseHonoursContextCancellation(t *testing.T) {
	board := intBoard(t, [][]int{{0}}, grid.Fixed(0))
	a, err := New(Config[int]{Board: board, Rules: []Rule[int]{constRule("noop", 0)}, Neighbourhood: moore(t)})
	if err != nil {
		t.Fatalf("new automaton: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	err = a.Visualise(ctx, 100, time.Hour, func(frame Frame[int]) error {
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}

func TestVisualiseRequiresSink(t *testing.T) {
	board := intBoard(t, [][]int{{0}}, grid.Fixed(0))
	a, err := New(Config[int]{Board: board, Rules: []Rule[int]{constRule("noop", 0)}, Neighbourhood: moore(t)})
	if err != nil {
		t.Fatalf("new automaton: %v", err)
	}

	if err := a.Visualise(context.Background(), 1, 0, nil); err == nil {
		t.Fatal("expected error for nil sink")
	}
}
