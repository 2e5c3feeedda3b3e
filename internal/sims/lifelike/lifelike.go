// Package lifelike evolves life-like transition tables. A genotype is a pair
// of birth/survival bitmasks in the usual B/S notation plus a target alive
// density its fitness rewards.
package lifelike

import (
	"math/rand"
	"strings"

	"liveiron/internal/genetic"
	"liveiron/internal/grid"
	"liveiron/internal/sims/life"
)

// ruleBits covers neighbour counts 0..8 of a radius-one Moore neighbourhood.
const (
	ruleBits = 9
	ruleMask = 1<<ruleBits - 1
)

type TableGenotype struct {
	// Birth bit i: a dead cell with i live neighbours is born.
	Birth uint16
	// Survive bit i: a live cell with i live neighbours survives.
	Survive uint16
	// Target is the alive density the genotype is rewarded for reaching.
	Target float64
}

var _ genetic.Genotype[life.State] = TableGenotype{}

// Conway returns the classic B3/S23 table.
func Conway() TableGenotype {
	return TableGenotype{Birth: 1 << 3, Survive: 1<<2 | 1<<3, Target: 0.5}
}

func (g TableGenotype) Name() string {
	var b strings.Builder
	b.WriteByte('B')
	writeBits(&b, g.Birth)
	b.WriteString("/S")
	writeBits(&b, g.Survive)
	return b.String()
}

func writeBits(b *strings.Builder, mask uint16) {
	for i := 0; i < ruleBits; i++ {
		if mask&(1<<i) != 0 {
			b.WriteByte(byte('0' + i))
		}
	}
}

func (g TableGenotype) Next(cell grid.Cell[life.State], neighbours []grid.Cell[life.State]) life.State {
	alive := 0
	for _, n := range neighbours {
		if n.State == life.Alive {
			alive++
		}
	}
	if alive >= ruleBits {
		alive = ruleBits - 1
	}
	if cell.State == life.Alive {
		if g.Survive&(1<<alive) != 0 {
			return life.Alive
		}
		return life.Dead
	}
	if g.Birth&(1<<alive) != 0 {
		return life.Alive
	}
	return life.Dead
}

// Mutate flips each table bit with probability rate and occasionally nudges
// the target density.
func (g TableGenotype) Mutate(rng *rand.Rand, rate float64) genetic.Genotype[life.State] {
	child := g
	for i := 0; i < ruleBits; i++ {
		if rng.Float64() < rate {
			child.Birth ^= 1 << i
		}
		if rng.Float64() < rate {
			child.Survive ^= 1 << i
		}
	}
	if rng.Float64() < rate {
		child.Target += (rng.Float64() - 0.5) * 0.2
		if child.Target < 0 {
			child.Target = 0
		}
		if child.Target > 1 {
			child.Target = 1
		}
	}
	child.Birth &= ruleMask
	child.Survive &= ruleMask
	return child
}

// Reproduce performs uniform crossover over the table bits. The target
// density comes from either parent with equal chance.
func (g TableGenotype) Reproduce(other genetic.Genotype[life.State], rng *rand.Rand) genetic.Genotype[life.State] {
	mate, ok := other.(TableGenotype)
	if !ok {
		return g
	}
	var child TableGenotype
	for i := 0; i < ruleBits; i++ {
		bit := uint16(1) << i
		if rng.Intn(2) == 0 {
			child.Birth |= g.Birth & bit
		} else {
			child.Birth |= mate.Birth & bit
		}
		if rng.Intn(2) == 0 {
			child.Survive |= g.Survive & bit
		} else {
			child.Survive |= mate.Survive & bit
		}
	}
	if rng.Intn(2) == 0 {
		child.Target = g.Target
	} else {
		child.Target = mate.Target
	}
	return child
}

// Evaluate scores how close the local alive density, the cell plus its
// neighbours, lands to the genotype's target. The score lies in [0, 1].
func (g TableGenotype) Evaluate(ctx genetic.Context[life.State]) float64 {
	alive := 0
	if ctx.Cell.State == life.Alive {
		alive++
	}
	for _, n := range ctx.Neighbours {
		if n.State == life.Alive {
			alive++
		}
	}
	density := float64(alive) / float64(len(ctx.Neighbours)+1)
	diff := density - g.Target
	if diff < 0 {
		diff = -diff
	}
	return 1 - diff
}
