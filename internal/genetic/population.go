package genetic

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"liveiron/internal/grid"
)

var (
	ErrEmptyPopulation = errors.New("population is empty")
	ErrNotEvaluated    = errors.New("population fitness has not been evaluated")
	ErrNegativeFitness = errors.New("negative fitness is not selectable")
)

// Population is an ordered collection of genotypes with a parallel cache of
// fitness scores. Order carries no meaning but is stable within a generation
// so selection is reproducible. The cache is invalidated whenever a genotype
// changes.
type Population[S grid.State] struct {
	genotypes []Genotype[S]
	fitness   []float64
	evaluated bool
}

func NewPopulation[S grid.State](genotypes []Genotype[S]) (*Population[S], error) {
	if len(genotypes) == 0 {
		return nil, ErrEmptyPopulation
	}
	for i, g := range genotypes {
		if g == nil {
			return nil, fmt.Errorf("genotype is required at index %d", i)
		}
	}
	return &Population[S]{
		genotypes: append([]Genotype[S](nil), genotypes...),
		fitness:   make([]float64, len(genotypes)),
	}, nil
}

func (p *Population[S]) Len() int { return len(p.genotypes) }

func (p *Population[S]) Genotype(i int) Genotype[S] { return p.genotypes[i] }

// Genotypes returns a copy of the member list.
func (p *Population[S]) Genotypes() []Genotype[S] {
	return append([]Genotype[S](nil), p.genotypes...)
}

// Replace swaps the member at index i and invalidates the fitness cache.
func (p *Population[S]) Replace(i int, g Genotype[S]) error {
	if i < 0 || i >= len(p.genotypes) {
		return fmt.Errorf("genotype index out of range: %d", i)
	}
	if g == nil {
		return fmt.Errorf("genotype is required")
	}
	p.genotypes[i] = g
	p.evaluated = false
	return nil
}

// replaceAll commits a whole next generation at once.
func (p *Population[S]) replaceAll(genotypes []Genotype[S]) {
	p.genotypes = genotypes
	p.fitness = make([]float64, len(genotypes))
	p.evaluated = false
}

// Evaluate scores every member against its own context, in parallel over a
// bounded worker pool, and caches the results. One context per member, in
// member order.
func (p *Population[S]) Evaluate(contexts []Context[S], workers int) error {
	if len(p.genotypes) == 0 {
		return ErrEmptyPopulation
	}
	if len(contexts) != len(p.genotypes) {
		return fmt.Errorf("got %d contexts for %d genotypes", len(contexts), len(p.genotypes))
	}
	if workers <= 0 {
		workers = 1
	}

	scores := make([]float64, len(p.genotypes))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range p.genotypes {
		g.Go(func() error {
			scores[i] = p.genotypes[i].Evaluate(contexts[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	p.fitness = scores
	p.evaluated = true
	return nil
}

// IsEvaluated reports whether every member has a cached fitness score for the
// current membership.
func (p *Population[S]) IsEvaluated() bool { return p.evaluated }

// Scores returns a copy of the cached fitness scores.
func (p *Population[S]) Scores() ([]float64, error) {
	if len(p.genotypes) == 0 {
		return nil, ErrEmptyPopulation
	}
	if !p.evaluated {
		return nil, ErrNotEvaluated
	}
	return append([]float64(nil), p.fitness...), nil
}

// Best returns the index and fitness of the fittest member, ties broken by
// original order.
func (p *Population[S]) Best() (int, float64, error) {
	scores, err := p.Scores()
	if err != nil {
		return 0, 0, err
	}
	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}
	return best, scores[best], nil
}
