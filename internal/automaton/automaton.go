package automaton

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"liveiron/internal/grid"
)

var ErrNoRules = errors.New("automaton requires at least one rule")

// Config carries everything an Automaton needs. Board, Rules and
// Neighbourhood are required; Workers defaults to 1.
type Config[S grid.State] struct {
	Board         *grid.Board[S]
	Rules         []Rule[S]
	Neighbourhood *grid.Neighbourhood
	Workers       int
}

// Automaton steps a board under an ordered rule list. It owns the board
// exclusively: nothing else may mutate it between steps.
type Automaton[S grid.State] struct {
	board         *grid.Board[S]
	rules         []Rule[S]
	neighbourhood *grid.Neighbourhood
	workers       int
	generation    int
}

func New[S grid.State](cfg Config[S]) (*Automaton[S], error) {
	if cfg.Board == nil {
		return nil, fmt.Errorf("board is required")
	}
	if len(cfg.Rules) == 0 {
		return nil, ErrNoRules
	}
	for i, rule := range cfg.Rules {
		if rule == nil {
			return nil, fmt.Errorf("rule is required at index %d", i)
		}
	}
	if cfg.Neighbourhood == nil {
		return nil, fmt.Errorf("neighbourhood is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &Automaton[S]{
		board:         cfg.Board,
		rules:         append([]Rule[S](nil), cfg.Rules...),
		neighbourhood: cfg.Neighbourhood,
		workers:       cfg.Workers,
	}, nil
}

// Generation is the number of committed steps so far.
func (a *Automaton[S]) Generation() int { return a.generation }

// Board exposes the owned board for seeding and inspection between steps.
func (a *Automaton[S]) Board() *grid.Board[S] { return a.board }

// Snapshot returns a read-only copy of the current generation.
func (a *Automaton[S]) Snapshot() *grid.Snapshot[S] { return a.board.Snapshot() }

// Step advances the board one generation. Every cell's next state is computed
// from the frozen prior snapshot into a fresh buffer, then the buffer is
// committed atomically. Rules apply left-to-right per cell, each observing
// the snapshot and overriding the previous rule's result.
func (a *Automaton[S]) Step() error {
	snap := a.board.Snapshot()
	next, err := nextCells(snap, a.neighbourhood, a.workers, func(cell grid.Cell[S], neighbours []grid.Cell[S]) S {
		state := cell.State
		for _, rule := range a.rules {
			state = rule.Next(cell, neighbours)
		}
		return state
	})
	if err != nil {
		return err
	}
	if err := a.board.ReplaceCells(next); err != nil {
		return err
	}
	a.generation++
	return nil
}

// Evolve runs n steps, stopping at the first failure.
func (a *Automaton[S]) Evolve(n int) error {
	for i := 0; i < n; i++ {
		if err := a.Step(); err != nil {
			return fmt.Errorf("step %d: %w", a.generation+1, err)
		}
	}
	return nil
}

// Frame is the read-only view handed to a presentation sink after each
// completed generation.
type Frame[S grid.State] struct {
	Generation int
	Board      *grid.Snapshot[S]
}

// Sink receives one frame per completed generation. The engine never renders;
// whatever the sink does with the frame is outside the engine.
type Sink[S grid.State] func(Frame[S]) error

// Visualise advances one step per tick and yields the board snapshot to the
// sink. A non-positive interval runs the steps back to back.
func (a *Automaton[S]) Visualise(ctx context.Context, steps int, interval time.Duration, sink Sink[S]) error {
	if sink == nil {
		return fmt.Errorf("sink is required")
	}
	var ticker *time.Ticker
	if interval > 0 {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
	}

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.Step(); err != nil {
			return fmt.Errorf("step %d: %w", a.generation+1, err)
		}
		if err := sink(Frame[S]{Generation: a.generation, Board: a.board.Snapshot()}); err != nil {
			return err
		}
		if ticker != nil && i < steps-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}
	return nil
}

// nextCells fans the per-cell computation out over a bounded worker pool, one
// unit of work per row. Workers read only the snapshot and write only their
// own slots of the buffer.
func nextCells[S grid.State](
	snap *grid.Snapshot[S],
	neighbourhood *grid.Neighbourhood,
	workers int,
	compute func(cell grid.Cell[S], neighbours []grid.Cell[S]) S,
) ([]S, error) {
	width, height := snap.Width(), snap.Height()
	next := make([]S, width*height)

	var g errgroup.Group
	g.SetLimit(workers)
	for row := 0; row < height; row++ {
		g.Go(func() error {
			for col := 0; col < width; col++ {
				c := grid.Coord{Row: row, Col: col}
				cell := grid.Cell[S]{Coord: c, State: snap.Get(c)}
				neighbours := grid.NeighboursOf(neighbourhood, c, snap)
				next[row*width+col] = compute(cell, neighbours)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}
