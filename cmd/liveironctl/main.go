package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"liveiron/internal/automaton"
	"liveiron/internal/genetic"
	"liveiron/internal/grid"
	"liveiron/internal/sims/ant"
	"liveiron/internal/sims/life"
	"liveiron/internal/sims/lifelike"
	"liveiron/internal/storage"
	liveapi "liveiron/pkg/liveiron"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "life":
		return runLife(ctx, args[1:])
	case "ant":
		return runAnt(ctx, args[1:])
	case "genetic":
		return runGenetic(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runLife(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("life", flag.ContinueOnError)
	width := fs.Int("width", 40, "board width")
	height := fs.Int("height", 20, "board height")
	steps := fs.Int("steps", 100, "number of generations")
	fill := fs.Float64("fill", 0.35, "initial alive density")
	seed := fs.Int64("seed", time.Now().UnixNano(), "random seed")
	workers := fs.Int("workers", 4, "parallel workers")
	interval := fs.Duration("interval", 50*time.Millisecond, "delay between frames")
	periodic := fs.Bool("periodic", true, "wrap the board edges")
	quiet := fs.Bool("quiet", false, "suppress frame rendering")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "liveiron.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(ctx, *storeKind, *dbPath, *workers)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	rng := rand.New(rand.NewSource(*seed))
	rows := life.RandomRows(*width, *height, *fill, rng.Float64)

	boundary := grid.Fixed(life.Dead)
	if *periodic {
		boundary = grid.Periodic[life.State]()
	}

	var sink automaton.Sink[life.State]
	if !*quiet {
		sink = func(frame automaton.Frame[life.State]) error {
			fmt.Printf("generation %d\n%s\n", frame.Generation, renderLife(frame.Board))
			return nil
		}
	}

	summary, err := liveapi.RunCellular(ctx, client, liveapi.CellularRequest[life.State]{
		Rows:     rows,
		Boundary: boundary,
		Rules:    []automaton.Rule[life.State]{life.Rule{}},
		Topology: grid.Moore,
		Steps:    *steps,
		Seed:     *seed,
		Workers:  *workers,
		Sink:     sink,
		Interval: *interval,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run %s finished: %s generations over %s cells\n",
		summary.RunID,
		humanize.Comma(int64(summary.Generations)),
		humanize.Comma(int64(*width**height)))
	return nil
}

func runAnt(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ant", flag.ContinueOnError)
	width := fs.Int("width", 40, "board width")
	height := fs.Int("height", 20, "board height")
	steps := fs.Int("steps", 200, "number of generations")
	seed := fs.Int64("seed", 0, "random seed (recorded only)")
	workers := fs.Int("workers", 4, "parallel workers")
	interval := fs.Duration("interval", 25*time.Millisecond, "delay between frames")
	periodic := fs.Bool("periodic", true, "wrap the board edges")
	quiet := fs.Bool("quiet", false, "suppress frame rendering")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "liveiron.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(ctx, *storeKind, *dbPath, *workers)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	rows := ant.EmptyRows(*width, *height)
	ant.Place(rows, grid.Coord{Row: *height / 2, Col: *width / 2}, ant.Up)

	boundary := grid.Fixed(ant.State{})
	if *periodic {
		boundary = grid.Periodic[ant.State]()
	}

	var sink automaton.Sink[ant.State]
	if !*quiet {
		sink = func(frame automaton.Frame[ant.State]) error {
			fmt.Printf("generation %d\n%s\n", frame.Generation, renderAnt(frame.Board))
			return nil
		}
	}

	summary, err := liveapi.RunCellular(ctx, client, liveapi.CellularRequest[ant.State]{
		Rows:     rows,
		Boundary: boundary,
		Rules:    []automaton.Rule[ant.State]{ant.Rule{Width: *width, Height: *height}},
		Topology: grid.VonNeumann,
		Steps:    *steps,
		Seed:     *seed,
		Workers:  *workers,
		Sink:     sink,
		Interval: *interval,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run %s finished: %s generations\n",
		summary.RunID, humanize.Comma(int64(summary.Generations)))
	return nil
}

func runGenetic(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("genetic", flag.ContinueOnError)
	width := fs.Int("width", 24, "board width")
	height := fs.Int("height", 24, "board height")
	generations := fs.Int("generations", 50, "number of generations")
	populationSize := fs.Int("population", 0, "population size (default one genotype per cell)")
	mutationRate := fs.Float64("mutation-rate", 0.05, "per-bit mutation probability")
	replacement := fs.Float64("replacement", 0.25, "fraction of the population replaced per generation")
	strategy := fs.String("strategy", "tournament", "selection strategy: tournament|roulette_wheel|rank|truncation")
	tournamentSize := fs.Int("tournament-size", 2, "tournament size")
	truncationFraction := fs.Float64("truncation-fraction", 0.5, "surviving fraction for truncation selection")
	binding := fs.String("binding", "", "cell binding: row_major|modulo")
	fill := fs.Float64("fill", 0.4, "initial alive density")
	targetDensity := fs.Float64("target", 0.5, "alive density the fitness rewards")
	seed := fs.Int64("seed", time.Now().UnixNano(), "random seed")
	workers := fs.Int("workers", 4, "parallel workers")
	interval := fs.Duration("interval", 0, "delay between frames")
	quiet := fs.Bool("quiet", false, "suppress per-generation output")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "liveiron.db", "sqlite database path")
	configPath := fs.String("config", "", "JSON config file keyed by flag name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath != "" {
		if err := applyConfigFile(fs, *configPath); err != nil {
			return err
		}
	}

	client, err := newClient(ctx, *storeKind, *dbPath, *workers)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	size := *populationSize
	if size <= 0 {
		size = *width * *height
	}
	if *binding == "" && size != *width**height {
		*binding = "modulo"
	}

	rng := rand.New(rand.NewSource(*seed))
	rows := life.RandomRows(*width, *height, *fill, rng.Float64)
	genotypes := make([]genetic.Genotype[life.State], size)
	for i := range genotypes {
		genotypes[i] = lifelike.TableGenotype{
			Birth:   uint16(rng.Intn(1 << 9)),
			Survive: uint16(rng.Intn(1 << 9)),
			Target:  *targetDensity,
		}
	}

	var sink genetic.Sink[life.State]
	if !*quiet {
		sink = func(frame genetic.Frame[life.State]) error {
			fmt.Printf("generation %d: best=%s mean=%s\n",
				frame.Generation, humanize.Ftoa(frame.BestFitness), humanize.Ftoa(frame.MeanFitness))
			return nil
		}
	}

	summary, err := liveapi.RunGenetic(ctx, client, liveapi.GeneticRequest[life.State]{
		Rows:                rows,
		Boundary:            grid.Periodic[life.State](),
		Genotypes:           genotypes,
		Topology:            grid.Moore,
		Strategy:            *strategy,
		TournamentSize:      *tournamentSize,
		TruncationFraction:  *truncationFraction,
		Binding:             *binding,
		MutationRate:        *mutationRate,
		ReplacementFraction: *replacement,
		Generations:         *generations,
		Seed:                *seed,
		Workers:             *workers,
		Sink:                sink,
		Interval:            *interval,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run %s finished: %s generations, final best fitness %s\n",
		summary.RunID,
		humanize.Comma(int64(summary.Generations)),
		humanize.Ftoa(summary.FinalBestFitness))
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	runID := fs.String("run", "", "run id to show")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "liveiron.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("show requires -run")
	}

	client, err := newClient(ctx, *storeKind, *dbPath, 1)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	run, ok, err := client.Run(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("run not found: %s", *runID)
	}

	fmt.Printf("run %s mode=%s board=%dx%d generations=%s seed=%d\n",
		run.ID, run.Mode, run.Width, run.Height,
		humanize.Comma(int64(run.Generations)), run.Seed)
	if run.Strategy != "" {
		fmt.Printf("strategy=%s binding=%s\n", run.Strategy, run.Binding)
	}

	diagnostics, ok, err := client.Diagnostics(ctx, *runID)
	if err != nil {
		return err
	}
	if ok {
		for _, d := range diagnostics {
			fmt.Printf("generation %d: best=%s mean=%s min=%s\n",
				d.Generation,
				humanize.Ftoa(d.BestFitness),
				humanize.Ftoa(d.MeanFitness),
				humanize.Ftoa(d.MinFitness))
		}
	}
	return nil
}

func newClient(ctx context.Context, storeKind, dbPath string, workers int) (*liveapi.Client, error) {
	client, err := liveapi.New(liveapi.Options{
		StoreKind: storeKind,
		DBPath:    dbPath,
		Workers:   workers,
	})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: liveironctl <life|ant|genetic|show> [flags]", msg)
}
