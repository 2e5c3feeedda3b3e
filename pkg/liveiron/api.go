// Package liveiron is the public entry point for running and recording
// simulations. A Client owns a run store; the generic Run functions build the
// board, automaton and selection machinery from a request and persist the
// resulting run record.
package liveiron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"liveiron/internal/automaton"
	"liveiron/internal/genetic"
	"liveiron/internal/grid"
	"liveiron/internal/model"
	"liveiron/internal/storage"
)

const defaultDBPath = "liveiron.db"

type Options struct {
	StoreKind string
	DBPath    string
	Workers   int
}

type Client struct {
	store   storage.Store
	workers int
}

func New(opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{store: store, workers: workers}, nil
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Run returns a previously recorded run.
func (c *Client) Run(ctx context.Context, id string) (model.RunRecord, bool, error) {
	return c.store.GetRun(ctx, id)
}

// FitnessHistory returns the recorded best-by-generation series of a run.
func (c *Client) FitnessHistory(ctx context.Context, runID string) ([]float64, bool, error) {
	return c.store.GetFitnessHistory(ctx, runID)
}

// Diagnostics returns the recorded per-generation fitness summaries of a run.
func (c *Client) Diagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	return c.store.GetGenerationDiagnostics(ctx, runID)
}

type CellularRequest[S grid.State] struct {
	Rows     [][]S
	Boundary grid.BoundaryCondition[S]
	Rules    []automaton.Rule[S]
	Topology grid.Topology
	Radius   int
	Steps    int
	Seed     int64
	Workers  int

	// Sink, when set, receives a frame after every step. Interval throttles
	// frame delivery; zero runs the steps back to back.
	Sink     automaton.Sink[S]
	Interval time.Duration
}

type CellularSummary[S grid.State] struct {
	RunID       string
	Generations int
	FinalBoard  *grid.Snapshot[S]
}

// RunCellular steps a rule-driven automaton and records the run.
func RunCellular[S grid.State](ctx context.Context, c *Client, req CellularRequest[S]) (CellularSummary[S], error) {
	if req.Steps <= 0 {
		req.Steps = 100
	}
	if req.Radius <= 0 {
		req.Radius = 1
	}
	if req.Workers <= 0 {
		req.Workers = c.workers
	}

	board, err := grid.NewBoard(req.Rows, req.Boundary)
	if err != nil {
		return CellularSummary[S]{}, err
	}
	neighbourhood, err := grid.NewNeighbourhood(req.Topology, req.Radius)
	if err != nil {
		return CellularSummary[S]{}, err
	}
	a, err := automaton.New(automaton.Config[S]{
		Board:         board,
		Rules:         req.Rules,
		Neighbourhood: neighbourhood,
		Workers:       req.Workers,
	})
	if err != nil {
		return CellularSummary[S]{}, err
	}

	if req.Sink != nil {
		err = a.Visualise(ctx, req.Steps, req.Interval, req.Sink)
	} else {
		err = a.Evolve(req.Steps)
	}
	if err != nil {
		return CellularSummary[S]{}, err
	}

	run := model.RunRecord{
		ID:          uuid.NewString(),
		Mode:        model.RunModeCellular,
		Width:       board.Width(),
		Height:      board.Height(),
		Generations: a.Generation(),
		Seed:        req.Seed,
	}
	storage.Stamp(&run.VersionedRecord)
	if err := c.store.SaveRun(ctx, run); err != nil {
		return CellularSummary[S]{}, fmt.Errorf("save run: %w", err)
	}

	return CellularSummary[S]{
		RunID:       run.ID,
		Generations: a.Generation(),
		FinalBoard:  a.Snapshot(),
	}, nil
}

type GeneticRequest[S grid.State] struct {
	Rows      [][]S
	Boundary  grid.BoundaryCondition[S]
	Genotypes []genetic.Genotype[S]
	Topology  grid.Topology
	Radius    int

	// Strategy picks parents and victims: tournament, roulette_wheel, rank
	// or truncation. TournamentSize and TruncationFraction only apply to
	// their respective strategies.
	Strategy           string
	TournamentSize     int
	TruncationFraction float64

	// Binding maps cells to population members: row_major or modulo.
	Binding string

	MutationRate        float64
	ReplacementFraction float64
	Generations         int
	Seed                int64
	Workers             int

	Sink     genetic.Sink[S]
	Interval time.Duration
}

type GeneticSummary[S grid.State] struct {
	RunID            string
	Generations      int
	BestByGeneration []float64
	FinalBestFitness float64
	FinalBoard       *grid.Snapshot[S]
}

// RunGenetic evolves a population of genotypes on a board and records the
// run, its best-by-generation fitness series and per-generation diagnostics.
func RunGenetic[S grid.State](ctx context.Context, c *Client, req GeneticRequest[S]) (GeneticSummary[S], error) {
	if req.Generations <= 0 {
		req.Generations = 50
	}
	if req.Radius <= 0 {
		req.Radius = 1
	}
	if req.Workers <= 0 {
		req.Workers = c.workers
	}
	if req.Strategy == "" {
		req.Strategy = "tournament"
	}

	strategy, err := strategyFromName(req.Strategy, req.TournamentSize, req.TruncationFraction)
	if err != nil {
		return GeneticSummary[S]{}, err
	}
	binding, err := bindingFromName(req.Binding)
	if err != nil {
		return GeneticSummary[S]{}, err
	}

	board, err := grid.NewBoard(req.Rows, req.Boundary)
	if err != nil {
		return GeneticSummary[S]{}, err
	}
	neighbourhood, err := grid.NewNeighbourhood(req.Topology, req.Radius)
	if err != nil {
		return GeneticSummary[S]{}, err
	}
	population, err := genetic.NewPopulation(req.Genotypes)
	if err != nil {
		return GeneticSummary[S]{}, err
	}
	a, err := genetic.NewGeneticAutomaton(genetic.Config[S]{
		Board:               board,
		Population:          population,
		Strategy:            strategy,
		Neighbourhood:       neighbourhood,
		Binding:             binding,
		MutationRate:        req.MutationRate,
		ReplacementFraction: req.ReplacementFraction,
		Workers:             req.Workers,
		Seed:                req.Seed,
	})
	if err != nil {
		return GeneticSummary[S]{}, err
	}

	bestByGeneration := make([]float64, 0, req.Generations)
	diagnostics := make([]model.GenerationDiagnostics, 0, req.Generations)
	record := func() {
		d := a.Diagnostics()
		bestByGeneration = append(bestByGeneration, d.BestFitness)
		diagnostics = append(diagnostics, model.GenerationDiagnostics{
			Generation:  d.Generation,
			BestFitness: d.BestFitness,
			MeanFitness: d.MeanFitness,
			MinFitness:  d.MinFitness,
		})
	}

	if req.Sink != nil {
		wrapped := func(frame genetic.Frame[S]) error {
			record()
			return req.Sink(frame)
		}
		err = a.Visualise(ctx, req.Generations, req.Interval, wrapped)
	} else {
		for i := 0; i < req.Generations; i++ {
			if err = a.Step(); err != nil {
				err = fmt.Errorf("generation %d: %w", a.Generation()+1, err)
				break
			}
			record()
		}
	}
	if err != nil {
		return GeneticSummary[S]{}, err
	}

	run := model.RunRecord{
		ID:          uuid.NewString(),
		Mode:        model.RunModeGenetic,
		Width:       board.Width(),
		Height:      board.Height(),
		Generations: a.Generation(),
		Seed:        req.Seed,
		Strategy:    strategy.Name(),
		Binding:     binding.Name(),
	}
	storage.Stamp(&run.VersionedRecord)
	if err := c.store.SaveRun(ctx, run); err != nil {
		return GeneticSummary[S]{}, fmt.Errorf("save run: %w", err)
	}
	if err := c.store.SaveFitnessHistory(ctx, run.ID, bestByGeneration); err != nil {
		return GeneticSummary[S]{}, fmt.Errorf("save fitness history: %w", err)
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, run.ID, diagnostics); err != nil {
		return GeneticSummary[S]{}, fmt.Errorf("save diagnostics: %w", err)
	}

	return GeneticSummary[S]{
		RunID:            run.ID,
		Generations:      a.Generation(),
		BestByGeneration: bestByGeneration,
		FinalBestFitness: a.Diagnostics().BestFitness,
		FinalBoard:       a.Snapshot(),
	}, nil
}

func strategyFromName(name string, tournamentSize int, truncationFraction float64) (genetic.Strategy, error) {
	switch name {
	case "tournament":
		return genetic.Tournament{Size: tournamentSize}, nil
	case "roulette_wheel", "roulette":
		return genetic.RouletteWheel{}, nil
	case "rank":
		return genetic.Rank{}, nil
	case "truncation":
		if truncationFraction == 0 {
			truncationFraction = 0.5
		}
		return genetic.Truncation{Fraction: truncationFraction}, nil
	default:
		return nil, fmt.Errorf("unknown selection strategy: %s", name)
	}
}

func bindingFromName(name string) (genetic.Binding, error) {
	switch name {
	case "", "row_major":
		return genetic.RowMajorBinding{}, nil
	case "modulo":
		return genetic.ModuloBinding{}, nil
	default:
		return nil, fmt.Errorf("unknown binding: %s", name)
	}
}
