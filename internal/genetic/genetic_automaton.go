package genetic

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"liveiron/internal/grid"
)

// Config carries everything a GeneticAutomaton needs. Board, Population,
// Strategy and Neighbourhood are required. Binding defaults to one genotype
// per cell in row-major order, ReplacementFraction to 0.25 and Workers to 1.
type Config[S grid.State] struct {
	Board         *grid.Board[S]
	Population    *Population[S]
	Strategy      Strategy
	Neighbourhood *grid.Neighbourhood
	Binding       Binding

	// MutationRate is passed to Genotype.Mutate for every offspring.
	MutationRate float64
	// ReplacementFraction is the share of the population replaced by
	// offspring each generation.
	ReplacementFraction float64
	Workers             int
	Seed                int64
}

// Diagnostics summarises the fitness of the generation that was just
// committed.
type Diagnostics struct {
	Generation  int
	BestFitness float64
	MeanFitness float64
	MinFitness  float64
}

// GeneticAutomaton evolves a population of rule genotypes bound onto a board.
// Each generation binds genotypes to cells, runs one cellular step under the
// bound rules, re-scores fitness against the resulting cells, then selects,
// reproduces, mutates and culls back to the fixed population size. Board and
// population commit together; a failed generation leaves both untouched.
type GeneticAutomaton[S grid.State] struct {
	board         *grid.Board[S]
	population    *Population[S]
	strategy      Strategy
	neighbourhood *grid.Neighbourhood
	binding       Binding

	mutationRate float64
	replacement  float64
	workers      int
	seed         int64

	rng        *rand.Rand
	generation int
	diag       Diagnostics
}

func NewGeneticAutomaton[S grid.State](cfg Config[S]) (*GeneticAutomaton[S], error) {
	if cfg.Board == nil {
		return nil, fmt.Errorf("board is required")
	}
	if cfg.Population == nil {
		return nil, fmt.Errorf("population is required")
	}
	if cfg.Strategy == nil {
		return nil, fmt.Errorf("selection strategy is required")
	}
	if cfg.Neighbourhood == nil {
		return nil, fmt.Errorf("neighbourhood is required")
	}
	if cfg.Binding == nil {
		cfg.Binding = RowMajorBinding{}
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate must be in [0,1], got %g", cfg.MutationRate)
	}
	if cfg.ReplacementFraction < 0 || cfg.ReplacementFraction >= 1 {
		return nil, fmt.Errorf("replacement fraction must be in [0,1), got %g", cfg.ReplacementFraction)
	}
	if cfg.ReplacementFraction == 0 {
		cfg.ReplacementFraction = 0.25
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if err := cfg.Binding.Validate(cfg.Board.Width(), cfg.Board.Height(), cfg.Population.Len()); err != nil {
		return nil, err
	}

	return &GeneticAutomaton[S]{
		board:         cfg.Board,
		population:    cfg.Population,
		strategy:      cfg.Strategy,
		neighbourhood: cfg.Neighbourhood,
		binding:       cfg.Binding,
		mutationRate:  cfg.MutationRate,
		replacement:   cfg.ReplacementFraction,
		workers:       cfg.Workers,
		seed:          cfg.Seed,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

func (a *GeneticAutomaton[S]) Generation() int             { return a.generation }
func (a *GeneticAutomaton[S]) Board() *grid.Board[S]       { return a.board }
func (a *GeneticAutomaton[S]) Population() *Population[S]  { return a.population }
func (a *GeneticAutomaton[S]) Snapshot() *grid.Snapshot[S] { return a.board.Snapshot() }

// Diagnostics returns the fitness summary of the last committed generation.
func (a *GeneticAutomaton[S]) Diagnostics() Diagnostics { return a.diag }

// Step runs one full generation. Nothing is committed until every phase has
// succeeded, so a failing step leaves the previous board and population
// intact.
func (a *GeneticAutomaton[S]) Step() error {
	width, height := a.board.Width(), a.board.Height()
	size := a.population.Len()
	snap := a.board.Snapshot()

	// Phase 1+2: bind genotypes to cells and run one cellular step against
	// the frozen snapshot.
	next := make([]S, width*height)
	var g errgroup.Group
	g.SetLimit(a.workers)
	for row := 0; row < height; row++ {
		g.Go(func() error {
			for col := 0; col < width; col++ {
				c := grid.Coord{Row: row, Col: col}
				genotype := a.population.Genotype(a.binding.Index(c, width, height, size))
				cell := grid.Cell[S]{Coord: c, State: snap.Get(c)}
				neighbours := grid.NeighboursOf(a.neighbourhood, c, snap)
				next[row*width+col] = genotype.Next(cell, neighbours)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	nextSnap, err := grid.SnapshotFromCells(next, width, height, a.board.Boundary())
	if err != nil {
		return err
	}

	// Phase 3: re-score every genotype against its resulting cell. The
	// representative cell is the first one bound to the genotype in
	// row-major order.
	scores, err := a.scoreAgainst(nextSnap)
	if err != nil {
		return err
	}

	// Phase 4: selection, reproduction, mutation, culling.
	offspringCount := int(math.Round(a.replacement * float64(size)))
	if offspringCount < 1 {
		offspringCount = 1
	}
	if offspringCount > size {
		offspringCount = size
	}

	parents, err := a.strategy.PickParents(a.rng, scores, 2*offspringCount)
	if err != nil {
		return fmt.Errorf("pick parents: %w", err)
	}
	victims, err := a.strategy.PickVictims(a.rng, scores, offspringCount)
	if err != nil {
		return fmt.Errorf("pick victims: %w", err)
	}

	nextGenotypes := a.population.Genotypes()
	for i := 0; i < offspringCount; i++ {
		mother := a.population.Genotype(parents[2*i])
		father := a.population.Genotype(parents[2*i+1])
		// Each offspring draws from its own sub-stream so results do not
		// depend on evaluation order.
		crng := subStream(a.seed, a.generation, i)
		child := mother.Reproduce(father, crng)
		child = child.Mutate(crng, a.mutationRate)
		if child == nil {
			return fmt.Errorf("offspring %d: genotype produced nil child", i)
		}
		nextGenotypes[victims[i]] = child
	}

	// Phase 5: commit board and population together.
	if err := a.board.ReplaceCells(next); err != nil {
		return err
	}
	a.population.replaceAll(nextGenotypes)
	a.generation++
	a.diag = summarise(a.generation, scores)
	return nil
}

// scoreAgainst evaluates every genotype against its representative cell on
// the given snapshot, fanning out over the worker pool.
func (a *GeneticAutomaton[S]) scoreAgainst(snap *grid.Snapshot[S]) ([]float64, error) {
	width, height := snap.Width(), snap.Height()
	size := a.population.Len()

	representative := make([]grid.Coord, size)
	bound := make([]bool, size)
	seen := 0
	for row := 0; row < height && seen < size; row++ {
		for col := 0; col < width && seen < size; col++ {
			c := grid.Coord{Row: row, Col: col}
			idx := a.binding.Index(c, width, height, size)
			if idx < 0 || idx >= size {
				return nil, fmt.Errorf("binding %s mapped (%d,%d) to index %d of %d: %w", a.binding.Name(), row, col, idx, size, ErrBindingMismatch)
			}
			if !bound[idx] {
				representative[idx] = c
				bound[idx] = true
				seen++
			}
		}
	}
	if seen < size {
		return nil, fmt.Errorf("binding %s left %d of %d genotypes unbound: %w", a.binding.Name(), size-seen, size, ErrBindingMismatch)
	}

	scores := make([]float64, size)
	var g errgroup.Group
	g.SetLimit(a.workers)
	for i := 0; i < size; i++ {
		g.Go(func() error {
			c := representative[i]
			ctx := Context[S]{
				Cell:       grid.Cell[S]{Coord: c, State: snap.Get(c)},
				Neighbours: grid.NeighboursOf(a.neighbourhood, c, snap),
				Board:      snap,
			}
			scores[i] = a.population.Genotype(i).Evaluate(ctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// Evolve runs n generations, stopping at the first failure.
func (a *GeneticAutomaton[S]) Evolve(n int) error {
	for i := 0; i < n; i++ {
		if err := a.Step(); err != nil {
			return fmt.Errorf("generation %d: %w", a.generation+1, err)
		}
	}
	return nil
}

// Frame is the per-generation view handed to a presentation sink: the board
// snapshot plus the population's fitness summary.
type Frame[S grid.State] struct {
	Generation  int
	Board       *grid.Snapshot[S]
	BestFitness float64
	MeanFitness float64
}

type Sink[S grid.State] func(Frame[S]) error

// Visualise advances one generation per tick and yields a frame to the sink.
// A non-positive interval runs the generations back to back.
func (a *GeneticAutomaton[S]) Visualise(ctx context.Context, steps int, interval time.Duration, sink Sink[S]) error {
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
			return fmt.Errorf("generation %d: %w", a.generation+1, err)
		}
		if err := sink(Frame[S]{
			Generation:  a.generation,
			Board:       a.board.Snapshot(),
			BestFitness: a.diag.BestFitness,
			MeanFitness: a.diag.MeanFitness,
		}); err != nil {
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

func summarise(generation int, scores []float64) Diagnostics {
	best, low, total := scores[0], scores[0], 0.0
	for _, score := range scores {
		if score > best {
			best = score
		}
		if score < low {
			low = score
		}
		total += score
	}
	return Diagnostics{
		Generation:  generation,
		BestFitness: best,
		MeanFitness: total / float64(len(scores)),
		MinFitness:  low,
	}
}

// subStream derives a deterministic per-unit random source from the run seed,
// the generation and the unit index.
func subStream(seed int64, generation, index int) *rand.Rand {
	derived := seed ^ (int64(generation)+1)*0x6A09E667F3BCC909 ^ (int64(index)+1)*0x2545F4914F6CDD1D
	return rand.New(rand.NewSource(derived))
}
