package geometry

// DefaultMinFraction is the share of corner points that must fall inside the
// capture region for a code to count as framed.
const DefaultMinFraction = 0.8

// Decision is the outcome of the geometry gate for one frame.
type Decision int

const (
	// Undecided means no corner points were reported; wait for another frame.
	Undecided Decision = iota
	// InFrame means enough corner points are inside the region.
	InFrame
	// OutOfFrame means the code is visible but not framed.
	OutOfFrame
)

func (d Decision) String() string {
	switch d {
	case InFrame:
		return "in_frame"
	case OutOfFrame:
		return "out_of_frame"
	default:
		return "undecided"
	}
}

// FractionInside returns countInside/N. ok is false when points is empty.
func FractionInside(region Region, points []Point) (fraction float64, ok bool) {
	if len(points) == 0 {
		return 0, false
	}
	inside := 0
	for _, p := range points {
		if region.Contains(p) {
			inside++
		}
	}
	return float64(inside) / float64(len(points)), true
}

// Gate decides whether a detected code is inside the capture region.
type Gate struct {
	MinFraction float64
}

// NewGate returns a gate using minFraction, or DefaultMinFraction when
// minFraction is not in (0, 1].
func NewGate(minFraction float64) Gate {
	if minFraction <= 0 || minFraction > 1 {
		minFraction = DefaultMinFraction
	}
	return Gate{MinFraction: minFraction}
}

// Decide classifies a frame. The threshold is inclusive.
func (g Gate) Decide(region Region, points []Point) Decision {
	fraction, ok := FractionInside(region, points)
	if !ok {
		return Undecided
	}
	threshold := g.MinFraction
	if threshold <= 0 {
		threshold = DefaultMinFraction
	}
	if fraction >= threshold {
		return InFrame
	}
	return OutOfFrame
}
