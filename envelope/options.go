// SPDX-License-Identifier: MIT

package envelope

// Numeric policy defaults.
const (
	// DefaultDomainEpsilon excludes crossings closer than this to a domain edge
	// from the Interior class (Fermi-level units, eV).
	DefaultDomainEpsilon = 1e-3

	// DefaultChargeRoundTol is the maximum distance between a segment slope and
	// the nearest integer before the segment is reported degenerate.
	DefaultChargeRoundTol = 1e-6

	// DefaultCoordinateTol is the resolution to which output coordinates are
	// rounded. Crossings closer than this to an edge coincide with the edge.
	DefaultCoordinateTol = 1e-8
)

const (
	panicDomainEpsilonInvalid  = "envelope: WithDomainEpsilon: eps must be finite, non-negative"
	panicChargeRoundTolInvalid = "envelope: WithChargeRoundTol: tol must be finite, in [0, 0.5)"
	panicCoordinateTolInvalid  = "envelope: WithCoordinateTol: tol must be finite, positive"
)

// Option mutates Options. Constructors panic only on nonsensical values.
type Option func(*Options)

// Options is the resolved numeric policy of Solve and NewCrossPointSet.
type Options struct {
	domainEps      float64
	chargeRoundTol float64
	coordTol       float64
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		domainEps:      DefaultDomainEpsilon,
		chargeRoundTol: DefaultChargeRoundTol,
		coordTol:       DefaultCoordinateTol,
	}
}

// DomainEpsilon returns the configured edge exclusion width.
func (o Options) DomainEpsilon() float64 { return o.domainEps }

// ChargeRoundTol returns the configured integer-charge tolerance.
func (o Options) ChargeRoundTol() float64 { return o.chargeRoundTol }

// CoordinateTol returns the configured output coordinate resolution.
func (o Options) CoordinateTol() float64 { return o.coordTol }

// WithDomainEpsilon sets the width near each edge inside which crossings are
// tagged Boundary instead of Interior.
func WithDomainEpsilon(eps float64) Option {
	if isNonFinite(eps) || eps < 0 {
		panic(panicDomainEpsilonInvalid)
	}

	return func(o *Options) { o.domainEps = eps }
}

// WithChargeRoundTol sets the degeneracy-detection strictness. A tolerance of
// 0.5 or more would accept any slope, so it is rejected.
func WithChargeRoundTol(tol float64) Option {
	if isNonFinite(tol) || tol < 0 || tol >= 0.5 {
		panic(panicChargeRoundTolInvalid)
	}

	return func(o *Options) { o.chargeRoundTol = tol }
}

// WithCoordinateTol sets the output rounding resolution.
func WithCoordinateTol(tol float64) Option {
	if isNonFinite(tol) || tol <= 0 {
		panic(panicCoordinateTolInvalid)
	}

	return func(o *Options) { o.coordTol = tol }
}

// WithOptions copies a resolved policy. Used by callers that resolve options
// once and pass them down (transition, diagram).
func WithOptions(src Options) Option {
	return func(o *Options) { *o = src }
}

func gatherOptions(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Resolve applies opts over the defaults and returns the effective policy.
func Resolve(opts ...Option) Options {
	return gatherOptions(opts)
}
