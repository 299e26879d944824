package grid

import "fmt"

// A Phase is one half of a sweep pair.
type Phase int

const (
	// PhaseA reads Current and writes Scratch.
	PhaseA Phase = iota

	// PhaseB reads Scratch and writes Current.
	PhaseB
)

func (p Phase) String() string {
	switch p {
	case PhaseA:
		return "A"
	case PhaseB:
		return "B"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Phases lists the phases of a sweep pair in execution order.
var Phases = [...]Phase{PhaseA, PhaseB}

/*
UpdateRange applies the relaxation stencil to the indices in [low,
high):

	dst[i] = (src[i-1] + src[i+1] + stepSquared*forcing[i]) / 2

The range must lie within [1, len(src)-1), so that the boundary
entries are never written. An empty range performs no work.
*/
func UpdateRange(dst, src, forcing []float64, stepSquared float64, low, high int) {
	for i := low; i < high; i++ {
		// The conversion rules out a fused multiply-add, so all
		// strategies produce bit-identical results.
		dst[i] = (src[i-1] + src[i+1] + float64(stepSquared*forcing[i])) / 2
	}
}

// Update executes the given phase on the interior indices in [low,
// high).
//
// Update panics if p is not a valid phase, or if [low, high) is not
// within [1, N).
func (g *Grid) Update(p Phase, low, high int) {
	if low < 1 || high > g.N || high < low {
		panic(fmt.Sprintf("invalid interior range: %v:%v", low, high))
	}
	switch p {
	case PhaseA:
		UpdateRange(g.Scratch, g.Current, g.Forcing, g.StepSquared, low, high)
	case PhaseB:
		UpdateRange(g.Current, g.Scratch, g.Forcing, g.StepSquared, low, high)
	default:
		panic(fmt.Sprintf("invalid phase: %v", p))
	}
}
