// SPDX-License-Identifier: MIT

package envelope

import (
	"fmt"
	"sort"
	"strings"
)

// CrossPointSet is the ordered vertex sequence of one lower envelope together
// with the charge occupying each segment. It is read-only after construction.
//
// For k vertices there are k-1 segments; Charges()[i] occupies
// [Vertices()[i].EF, Vertices()[i+1].EF].
type CrossPointSet struct {
	vertices []Vertex
	charges  []int
}

// NewCrossPointSet assembles a set from precomputed interior crossings and
// boundary points. Points are sorted by ef (stable, boundary first) and the
// segment charges are recovered from the slopes with the configured tolerance.
func NewCrossPointSet(inner, boundary [][2]float64, opts ...Option) (CrossPointSet, error) {
	cfg := gatherOptions(opts)

	vs := make([]Vertex, 0, len(inner)+len(boundary))
	for _, p := range boundary {
		vs = append(vs, Vertex{EF: p[0], Energy: p[1], Kind: Boundary})
	}
	for _, p := range inner {
		vs = append(vs, Vertex{EF: p[0], Energy: p[1], Kind: Interior})
	}
	if len(vs) < 2 {
		return CrossPointSet{}, fmt.Errorf("%w: need at least two points, got %d", ErrEnvelopeDegenerate, len(vs))
	}
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].EF < vs[j].EF })

	charges, err := segmentCharges(vs, cfg.chargeRoundTol)
	if err != nil {
		return CrossPointSet{}, err
	}

	return CrossPointSet{vertices: vs, charges: charges}, nil
}

// Len returns the number of vertices.
func (c CrossPointSet) Len() int { return len(c.vertices) }

// Vertices returns a copy of the ordered vertices.
func (c CrossPointSet) Vertices() []Vertex { return append([]Vertex(nil), c.vertices...) }

// Charges returns the per-segment charges, left to right.
func (c CrossPointSet) Charges() []int { return append([]int(nil), c.charges...) }

// AllSortedPoints returns every vertex as [ef, energy], ordered by ef.
func (c CrossPointSet) AllSortedPoints() [][2]float64 {
	return points(c.vertices, func(Vertex) bool { return true })
}

// InnerCrossPoints returns the Interior vertices as [ef, energy].
func (c CrossPointSet) InnerCrossPoints() [][2]float64 {
	return points(c.vertices, func(v Vertex) bool { return v.Kind == Interior })
}

// BoundaryPoints returns the Boundary vertices as [ef, energy].
func (c CrossPointSet) BoundaryPoints() [][2]float64 {
	return points(c.vertices, func(v Vertex) bool { return v.Kind == Boundary })
}

// TAllSortedPoints returns AllSortedPoints transposed: [efs, energies].
func (c CrossPointSet) TAllSortedPoints() [2][]float64 { return transpose(c.AllSortedPoints()) }

// TInnerCrossPoints returns InnerCrossPoints transposed.
func (c CrossPointSet) TInnerCrossPoints() [2][]float64 { return transpose(c.InnerCrossPoints()) }

// TBoundaryPoints returns BoundaryPoints transposed.
func (c CrossPointSet) TBoundaryPoints() [2][]float64 { return transpose(c.BoundaryPoints()) }

// ChargeList returns, for every vertex, the charges of the segments to its
// left and right. The first vertex has no left segment and the last has no right one.
func (c CrossPointSet) ChargeList() []Neighbors {
	out := make([]Neighbors, len(c.vertices))
	for i := range c.vertices {
		if i > 0 {
			out[i].Left, out[i].HasLeft = c.charges[i-1], true
		}
		if i < len(c.charges) {
			out[i].Right, out[i].HasRight = c.charges[i], true
		}
	}

	return out
}

// AnnotatedChargePositions maps each segment charge to the midpoint of its
// segment, for placing labels.
func (c CrossPointSet) AnnotatedChargePositions() map[int][2]float64 {
	out := make(map[int][2]float64, len(c.charges))
	for i, q := range c.charges {
		a, b := c.vertices[i], c.vertices[i+1]
		out[q] = [2]float64{(a.EF + b.EF) / 2, (a.Energy + b.Energy) / 2}
	}

	return out
}

// StableCharges returns the set of segment charges.
func (c CrossPointSet) StableCharges() map[int]struct{} {
	out := make(map[int]struct{}, len(c.charges))
	for _, q := range c.charges {
		out[q] = struct{}{}
	}

	return out
}

// EnergyBounds returns the minimum and maximum vertex energy. ok is false for
// an empty set.
func (c CrossPointSet) EnergyBounds() (lo, hi float64, ok bool) {
	if len(c.vertices) == 0 {
		return 0, 0, false
	}
	lo, hi = c.vertices[0].Energy, c.vertices[0].Energy
	for _, v := range c.vertices[1:] {
		if v.Energy < lo {
			lo = v.Energy
		}
		if v.Energy > hi {
			hi = v.Energy
		}
	}

	return lo, hi, true
}

// String renders one "%12.4f %12.4f" row per vertex.
func (c CrossPointSet) String() string {
	rows := make([]string, len(c.vertices))
	for i, v := range c.vertices {
		rows[i] = fmt.Sprintf("%12.4f %12.4f", v.EF, v.Energy)
	}

	return strings.Join(rows, "\n")
}

func points(vs []Vertex, keep func(Vertex) bool) [][2]float64 {
	out := make([][2]float64, 0, len(vs))
	for _, v := range vs {
		if keep(v) {
			out = append(out, v.Point())
		}
	}

	return out
}

func transpose(ps [][2]float64) [2][]float64 {
	var t [2][]float64
	t[0] = make([]float64, len(ps))
	t[1] = make([]float64, len(ps))
	for i, p := range ps {
		t[0][i], t[1][i] = p[0], p[1]
	}

	return t
}
