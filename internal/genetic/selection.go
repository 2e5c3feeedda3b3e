package genetic

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Strategy chooses parents for reproduction and victims for culling from a
// population's fitness scores. Scores are indexed by original population
// order; ties always break toward the lower original index. Parent picks may
// repeat across slots; victim picks are distinct.
type Strategy interface {
	Name() string
	PickParents(rng *rand.Rand, scores []float64, n int) ([]int, error)
	PickVictims(rng *rand.Rand, scores []float64, n int) ([]int, error)
}

func validateSelection(rng *rand.Rand, scores []float64, n int, distinct bool) error {
	if rng == nil {
		return fmt.Errorf("random source is required")
	}
	if len(scores) == 0 {
		return ErrEmptyPopulation
	}
	if n <= 0 {
		return fmt.Errorf("selection count must be > 0, got %d", n)
	}
	if distinct && n > len(scores) {
		return fmt.Errorf("cannot pick %d distinct members from %d", n, len(scores))
	}
	return nil
}

// Tournament samples Size distinct members uniformly without replacement and
// keeps the fittest, independently per slot. Victims mirror parents with the
// least fit winning.
type Tournament struct {
	Size int
}

func (Tournament) Name() string { return "tournament" }

func (t Tournament) PickParents(rng *rand.Rand, scores []float64, n int) ([]int, error) {
	if err := validateSelection(rng, scores, n, false); err != nil {
		return nil, err
	}
	all := identityIndexes(len(scores))
	picks := make([]int, 0, n)
	for i := 0; i < n; i++ {
		picks = append(picks, runTournament(rng, scores, all, t.size(), true))
	}
	return picks, nil
}

func (t Tournament) PickVictims(rng *rand.Rand, scores []float64, n int) ([]int, error) {
	if err := validateSelection(rng, scores, n, true); err != nil {
		return nil, err
	}
	return pickDistinct(len(scores), n, func(remaining []int) int {
		return runTournament(rng, scores, remaining, t.size(), false)
	}), nil
}

func (t Tournament) size() int {
	if t.Size <= 0 {
		return 2
	}
	return t.Size
}

// runTournament samples size distinct candidates from the candidate set and
// returns the fittest (or least fit). Ties break toward the lower index.
func runTournament(rng *rand.Rand, scores []float64, candidates []int, size int, fittest bool) int {
	if size > len(candidates) {
		size = len(candidates)
	}
	best := -1
	for _, pos := range rng.Perm(len(candidates))[:size] {
		idx := candidates[pos]
		if best == -1 || better(scores, idx, best, fittest) {
			best = idx
		}
	}
	return best
}

func better(scores []float64, a, b int, fittest bool) bool {
	if scores[a] == scores[b] {
		return a < b
	}
	if fittest {
		return scores[a] > scores[b]
	}
	return scores[a] < scores[b]
}

// RouletteWheel selects with probability proportional to fitness. All scores
// must be non-negative; an all-zero population degenerates to uniform
// selection. Victims use the inverted weights max-fitness minus fitness.
type RouletteWheel struct{}

func (RouletteWheel) Name() string { return "roulette_wheel" }

func (RouletteWheel) PickParents(rng *rand.Rand, scores []float64, n int) ([]int, error) {
	if err := validateSelection(rng, scores, n, false); err != nil {
		return nil, err
	}
	if err := rejectNegative(scores); err != nil {
		return nil, err
	}
	all := identityIndexes(len(scores))
	picks := make([]int, 0, n)
	for i := 0; i < n; i++ {
		picks = append(picks, spinWheel(rng, scores, all, false))
	}
	return picks, nil
}

func (RouletteWheel) PickVictims(rng *rand.Rand, scores []float64, n int) ([]int, error) {
	if err := validateSelection(rng, scores, n, true); err != nil {
		return nil, err
	}
	if err := rejectNegative(scores); err != nil {
		return nil, err
	}
	return pickDistinct(len(scores), n, func(remaining []int) int {
		return spinWheel(rng, scores, remaining, true)
	}), nil
}

func rejectNegative(scores []float64) error {
	for i, score := range scores {
		if score < 0 {
			return fmt.Errorf("fitness %g at index %d: %w", score, i, ErrNegativeFitness)
		}
	}
	return nil
}

// spinWheel draws one candidate with probability proportional to its weight.
// Inverted mode weighs each candidate by the candidate maximum minus its
// fitness, so the least fit is the most likely. Zero total weight degenerates
// to a uniform draw.
func spinWheel(rng *rand.Rand, scores []float64, candidates []int, inverted bool) int {
	weights := make([]float64, len(candidates))
	total := 0.0
	if inverted {
		maxScore := scores[candidates[0]]
		for _, idx := range candidates[1:] {
			if scores[idx] > maxScore {
				maxScore = scores[idx]
			}
		}
		for i, idx := range candidates {
			weights[i] = maxScore - scores[idx]
			total += weights[i]
		}
	} else {
		for i, idx := range candidates {
			weights[i] = scores[idx]
			total += weights[i]
		}
	}
	if total <= 0 {
		return candidates[rng.Intn(len(candidates))]
	}

	spin := rng.Float64() * total
	for i, weight := range weights {
		spin -= weight
		if spin <= 0 {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// Rank sorts members by fitness ascending and assigns rank-proportional
// selection probability, so magnitude outliers cannot dominate. Rank 1 is the
// least fit; parents weigh high ranks, victims weigh low ranks.
type Rank struct{}

func (Rank) Name() string { return "rank" }

func (Rank) PickParents(rng *rand.Rand, scores []float64, n int) ([]int, error) {
	if err := validateSelection(rng, scores, n, false); err != nil {
		return nil, err
	}
	all := identityIndexes(len(scores))
	picks := make([]int, 0, n)
	for i := 0; i < n; i++ {
		picks = append(picks, spinRank(rng, scores, all, false))
	}
	return picks, nil
}

func (Rank) PickVictims(rng *rand.Rand, scores []float64, n int) ([]int, error) {
	if err := validateSelection(rng, scores, n, true); err != nil {
		return nil, err
	}
	return pickDistinct(len(scores), n, func(remaining []int) int {
		return spinRank(rng, scores, remaining, true)
	}), nil
}

func spinRank(rng *rand.Rand, scores []float64, candidates []int, inverted bool) int {
	order := ascendingByFitness(scores, candidates)
	total := float64(len(order)) * float64(len(order)+1) / 2

	spin := rng.Float64() * total
	for pos, idx := range order {
		weight := float64(pos + 1)
		if inverted {
			weight = float64(len(order) - pos)
		}
		spin -= weight
		if spin <= 0 {
			return idx
		}
	}
	return order[len(order)-1]
}

// Truncation deterministically takes the top Fraction of members as parents
// and the bottom slice as victims. No randomness is involved.
type Truncation struct {
	Fraction float64
}

func (Truncation) Name() string { return "truncation" }

func (t Truncation) PickParents(rng *rand.Rand, scores []float64, n int) ([]int, error) {
	if err := validateSelection(rng, scores, n, false); err != nil {
		return nil, err
	}
	if t.Fraction <= 0 || t.Fraction > 1 {
		return nil, fmt.Errorf("truncation fraction must be in (0,1], got %g", t.Fraction)
	}

	order := ascendingByFitness(scores, identityIndexes(len(scores)))
	cut := int(math.Ceil(t.Fraction * float64(len(order))))
	if cut < 1 {
		cut = 1
	}
	top := make([]int, 0, cut)
	for i := 0; i < cut; i++ {
		top = append(top, order[len(order)-1-i])
	}

	picks := make([]int, 0, n)
	for i := 0; i < n; i++ {
		picks = append(picks, top[i%cut])
	}
	return picks, nil
}

func (t Truncation) PickVictims(rng *rand.Rand, scores []float64, n int) ([]int, error) {
	if err := validateSelection(rng, scores, n, true); err != nil {
		return nil, err
	}
	order := ascendingByFitness(scores, identityIndexes(len(scores)))
	return append([]int(nil), order[:n]...), nil
}

// ascendingByFitness orders candidate indexes by fitness ascending, ties by
// original index.
func ascendingByFitness(scores []float64, candidates []int) []int {
	order := append([]int(nil), candidates...)
	sort.SliceStable(order, func(i, j int) bool {
		if scores[order[i]] == scores[order[j]] {
			return order[i] < order[j]
		}
		return scores[order[i]] < scores[order[j]]
	})
	return order
}

func identityIndexes(n int) []int {
	indexes := make([]int, n)
	for i := range indexes {
		indexes[i] = i
	}
	return indexes
}

// pickDistinct repeatedly draws from the not-yet-chosen members until n
// distinct picks are made. draw always receives a non-empty candidate set.
func pickDistinct(size, n int, draw func(remaining []int) int) []int {
	chosen := make(map[int]struct{}, n)
	picks := make([]int, 0, n)
	for len(picks) < n {
		remaining := make([]int, 0, size-len(picks))
		for i := 0; i < size; i++ {
			if _, ok := chosen[i]; !ok {
				remaining = append(remaining, i)
			}
		}
		idx := draw(remaining)
		chosen[idx] = struct{}{}
		picks = append(picks, idx)
	}
	return picks
}
