// SPDX-License-Identifier: MIT

package envelope

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by the envelope package.
var (
	// ErrNoLines indicates that Solve received an empty line set.
	ErrNoLines = errors.New("envelope: no energy lines")

	// ErrEmptyDomain indicates efMin >= efMax or a non-finite bound.
	// It is a configuration error and aborts any aggregate computation.
	ErrEmptyDomain = errors.New("envelope: empty Fermi-level domain")

	// ErrEnvelopeDegenerate indicates that a segment slope does not round to an
	// integer charge within tolerance, or that two vertices share the same ef.
	ErrEnvelopeDegenerate = errors.New("envelope: degenerate envelope segment")
)

// VertexKind tags an envelope vertex.
type VertexKind int

const (
	// Boundary marks a vertex at (or within DomainEpsilon of) a domain edge.
	Boundary VertexKind = iota

	// Interior marks a crossing strictly inside the domain.
	Interior
)

// String returns "boundary" or "interior".
func (k VertexKind) String() string {
	if k == Interior {
		return "interior"
	}

	return "boundary"
}

// Vertex is a point (EF, Energy) on the lower envelope.
type Vertex struct {
	EF     float64
	Energy float64
	Kind   VertexKind
}

// Point returns the vertex as an [ef, energy] pair.
func (v Vertex) Point() [2]float64 { return [2]float64{v.EF, v.Energy} }

// Neighbors holds the charges occupying the segments on either side of a vertex.
// The outermost vertices have no segment on their outer side.
type Neighbors struct {
	Left     int
	Right    int
	HasLeft  bool
	HasRight bool
}

// ValidateDomain returns ErrEmptyDomain unless efMin and efMax are finite and
// efMin < efMax.
func ValidateDomain(efMin, efMax float64) error {
	if isNonFinite(efMin) || isNonFinite(efMax) || efMin >= efMax {
		return fmt.Errorf("%w: [%g, %g]", ErrEmptyDomain, efMin, efMax)
	}

	return nil
}

func isNonFinite(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}
