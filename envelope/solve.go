// SPDX-License-Identifier: MIT

package envelope

import (
	"fmt"
	"math"
	"sort"

	"fortio.org/safecast"

	"github.com/katalvlaran/defectlevels/energyline"
)

// Solve computes the lower envelope of lines on [efMin, efMax].
//
// Preconditions and validation (in order):
//  1. lines is non-empty (ErrNoLines).
//  2. efMin and efMax are finite and efMin < efMax (ErrEmptyDomain, see ValidateDomain).
//  3. Every line has a finite intercept (ErrEnvelopeDegenerate).
//
// Returns the CrossPointSet of the envelope, or ErrEnvelopeDegenerate when a
// segment slope fails the integer-charge check.
//
// Complexity: O(n log n) time, O(n) space.
func Solve(lines []energyline.EnergyLine, efMin, efMax float64, opts ...Option) (CrossPointSet, error) {
	cfg := gatherOptions(opts)

	// 1) Validate inputs.
	if len(lines) == 0 {
		return CrossPointSet{}, ErrNoLines
	}
	if err := ValidateDomain(efMin, efMax); err != nil {
		return CrossPointSet{}, err
	}
	for _, l := range lines {
		if isNonFinite(l.Intercept()) {
			return CrossPointSet{}, fmt.Errorf("%w: charge %d has a non-finite intercept", ErrEnvelopeDegenerate, l.Charge)
		}
	}

	// 2) Build the unbounded lower chain; drop lines whose window is narrower
	//    than coordTol.
	chain := collapseNarrow(lowerChain(lines), cfg.coordTol)

	// 3) Breakpoints between consecutive chain lines, strictly increasing in ef.
	xs := make([]float64, len(chain)-1)
	for i := range xs {
		xs[i] = crossing(chain[i], chain[i+1])
	}

	// 4) Clip to the domain: first line active at efMin, last line active at efMax.
	//    Breakpoints within coordTol of an edge coincide with that edge.
	first := 0
	for first < len(xs) && xs[first] <= efMin+cfg.coordTol {
		first++
	}
	last := len(chain) - 1
	for last > first && xs[last-1] >= efMax-cfg.coordTol {
		last--
	}

	// 5) Emit vertices in ef order.
	raw := make([]Vertex, 0, last-first+2)
	raw = append(raw, Vertex{EF: efMin, Energy: chain[first].EnergyAt(efMin), Kind: Boundary})
	var x float64
	for i := first; i < last; i++ {
		x = xs[i]
		kind := Boundary
		if efMin+cfg.domainEps < x && x < efMax-cfg.domainEps {
			kind = Interior
		}
		raw = append(raw, Vertex{EF: x, Energy: chain[i].EnergyAt(x), Kind: kind})
	}
	raw = append(raw, Vertex{EF: efMax, Energy: chain[last].EnergyAt(efMax), Kind: Boundary})

	// 6) Recover segment charges from the unrounded vertices, then round for output.
	charges, err := segmentCharges(raw, cfg.chargeRoundTol)
	if err != nil {
		return CrossPointSet{}, err
	}
	scale := math.Round(1 / cfg.coordTol)
	for i := range raw {
		raw[i].EF = roundTo(raw[i].EF, scale)
		raw[i].Energy = roundTo(raw[i].Energy, scale)
	}

	return CrossPointSet{vertices: raw, charges: charges}, nil
}

// indexedLine keeps the input position of a line for stable tie-breaking.
type indexedLine struct {
	energyline.EnergyLine
	idx int
}

// lowerChain returns the lines of the unbounded lower envelope ordered by
// slope descending, i.e. left to right along the ef axis.
func lowerChain(lines []energyline.EnergyLine) []energyline.EnergyLine {
	sorted := make([]indexedLine, len(lines))
	for i, l := range lines {
		sorted[i] = indexedLine{EnergyLine: l, idx: i}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Charge != b.Charge {
			return a.Charge > b.Charge
		}
		if a.Intercept() != b.Intercept() {
			return a.Intercept() < b.Intercept()
		}

		return a.idx < b.idx
	})

	chain := make([]energyline.EnergyLine, 0, len(sorted))
	for _, l := range sorted {
		// equal slope: the first kept line is already the lowest
		if n := len(chain); n > 0 && chain[n-1].Charge == l.Charge {
			continue
		}
		for len(chain) >= 2 && dominated(chain[len(chain)-2], chain[len(chain)-1], l.EnergyLine) {
			chain = chain[:len(chain)-1]
		}
		chain = append(chain, l.EnergyLine)
	}

	return chain
}

// dominated reports whether b is never strictly below min(a, c), given
// slope(a) > slope(b) > slope(c). That holds when x(a,c) <= x(a,b), evaluated
// without division.
func dominated(a, b, c energyline.EnergyLine) bool {
	lhs := (c.Intercept() - a.Intercept()) * (a.Slope() - b.Slope())
	rhs := (b.Intercept() - a.Intercept()) * (a.Slope() - c.Slope())

	return lhs <= rhs
}

// collapseNarrow removes chain lines that are lowest only on a window shorter
// than tol. Nearly concurrent lines otherwise leave a sliver whose slope is
// rounding noise. Removing b from a, b, c moves the breakpoint to x(a, c),
// which lies inside the removed window, so breakpoints stay ordered.
func collapseNarrow(chain []energyline.EnergyLine, tol float64) []energyline.EnergyLine {
	out := make([]energyline.EnergyLine, 0, len(chain))
	for _, l := range chain {
		for n := len(out); n >= 2 && crossing(out[n-1], l)-crossing(out[n-2], out[n-1]) < tol; n-- {
			out = out[:n-1]
		}
		out = append(out, l)
	}

	return out
}

// crossing returns the ef at which a and b are equal. slope(a) != slope(b).
func crossing(a, b energyline.EnergyLine) float64 {
	return (b.Intercept() - a.Intercept()) / (a.Slope() - b.Slope())
}

// segmentCharges recovers the occupying charge of every consecutive vertex pair.
func segmentCharges(vs []Vertex, tol float64) ([]int, error) {
	charges := make([]int, 0, len(vs)-1)
	for i := 0; i+1 < len(vs); i++ {
		q, err := segmentCharge(vs[i], vs[i+1], tol)
		if err != nil {
			return nil, err
		}
		charges = append(charges, q)
	}

	return charges, nil
}

// segmentCharge rounds the slope between a and b to an integer charge.
func segmentCharge(a, b Vertex, tol float64) (int, error) {
	dx := b.EF - a.EF
	if !(dx > 0) {
		return 0, fmt.Errorf("%w: vertices at ef=%g and ef=%g do not span a segment", ErrEnvelopeDegenerate, a.EF, b.EF)
	}
	slope := (b.Energy - a.Energy) / dx
	if isNonFinite(slope) {
		return 0, fmt.Errorf("%w: non-finite slope on [%g, %g]", ErrEnvelopeDegenerate, a.EF, b.EF)
	}
	r := math.Round(slope)
	if math.Abs(slope-r) > tol {
		return 0, fmt.Errorf("%w: slope %.10g on [%g, %g] is not an integer charge", ErrEnvelopeDegenerate, slope, a.EF, b.EF)
	}
	q, err := safecast.Convert[int](r)
	if err != nil {
		return 0, fmt.Errorf("%w: slope %g: %v", ErrEnvelopeDegenerate, slope, err)
	}

	return q, nil
}

// roundTo rounds x to the nearest multiple of 1/scale and normalizes -0 to 0.
func roundTo(x, scale float64) float64 {
	r := math.Round(x*scale) / scale
	if r == 0 {
		return 0
	}

	return r
}
