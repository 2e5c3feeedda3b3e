package grid

import "fmt"

// Topology selects which relative offsets count as a cell's neighbours.
type Topology int

const (
	// Moore is the square neighbourhood: every cell within Chebyshev
	// distance radius, (2r+1)^2-1 neighbours.
	Moore Topology = iota
	// VonNeumann is the diamond neighbourhood: every cell within Manhattan
	// distance radius, 2r(r+1) neighbours.
	VonNeumann
)

func (t Topology) String() string {
	switch t {
	case Moore:
		return "moore"
	case VonNeumann:
		return "von_neumann"
	default:
		return fmt.Sprintf("topology(%d)", int(t))
	}
}

// Neighbourhood is a topology plus radius. The relative offset template is
// computed once at construction, ordered row-major and excluding the origin,
// so every neighbour query over it is reproducible.
type Neighbourhood struct {
	topology Topology
	radius   int
	offsets  []Coord
}

// NewNeighbourhood builds a neighbourhood for the topology and radius.
// Radius must be at least 1.
func NewNeighbourhood(topology Topology, radius int) (*Neighbourhood, error) {
	if radius < 1 {
		return nil, fmt.Errorf("neighbourhood radius must be >= 1, got %d", radius)
	}
	switch topology {
	case Moore, VonNeumann:
	default:
		return nil, fmt.Errorf("unknown neighbourhood topology: %d", int(topology))
	}

	offsets := make([]Coord, 0, (2*radius+1)*(2*radius+1)-1)
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if topology == VonNeumann && abs(dr)+abs(dc) > radius {
				continue
			}
			offsets = append(offsets, Coord{Row: dr, Col: dc})
		}
	}
	return &Neighbourhood{topology: topology, radius: radius, offsets: offsets}, nil
}

func (n *Neighbourhood) Topology() Topology { return n.topology }
func (n *Neighbourhood) Radius() int        { return n.radius }

// Size is the number of neighbours every query yields.
func (n *Neighbourhood) Size() int { return len(n.offsets) }

// Offsets returns the ordered relative offset template.
func (n *Neighbourhood) Offsets() []Coord {
	return append([]Coord(nil), n.offsets...)
}

// NeighboursOf resolves the neighbourhood of a coordinate against a frozen
// snapshot. For a periodic boundary the returned coordinates are wrapped into
// range; for a fixed boundary out-of-range neighbours keep their raw
// coordinate and carry the background state.
func NeighboursOf[S State](n *Neighbourhood, c Coord, snap *Snapshot[S]) []Cell[S] {
	neighbours := make([]Cell[S], 0, len(n.offsets))
	for _, offset := range n.offsets {
		at := c.Add(offset)
		if snap.boundary.Kind == BoundaryPeriodic {
			at = wrap(at, snap.width, snap.height)
		}
		neighbours = append(neighbours, Cell[S]{Coord: at, State: snap.Get(at)})
	}
	return neighbours
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
