package genetic

import (
	"math/rand"

	"liveiron/internal/automaton"
	"liveiron/internal/grid"
)

// Context is the board-local information a genotype's fitness function
// evaluates against: the cell it is bound to, that cell's neighbours, and the
// frozen board the cell belongs to. All of it comes from one committed
// generation.
type Context[S grid.State] struct {
	Cell       grid.Cell[S]
	Neighbours []grid.Cell[S]
	Board      *grid.Snapshot[S]
}

// Genotype is an evolvable rule representation. It behaves as a cellular rule
// on the board and additionally supports mutation, reproduction and fitness
// evaluation. Mutate and Reproduce return new genotypes and leave the
// receiver untouched; every random draw flows through the supplied source.
//
// Fitness is a real number; higher is fitter. The engine imposes no sign
// constraint, though RouletteWheel selection rejects negative values.
type Genotype[S grid.State] interface {
	automaton.Rule[S]

	Mutate(rng *rand.Rand, rate float64) Genotype[S]
	Reproduce(other Genotype[S], rng *rand.Rand) Genotype[S]
	Evaluate(ctx Context[S]) float64
}
