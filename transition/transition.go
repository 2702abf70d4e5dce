// SPDX-License-Identifier: MIT

package transition

import (
	"fmt"
	"math"

	"github.com/katalvlaran/defectlevels/energyline"
	"github.com/katalvlaran/defectlevels/envelope"
)

// TransitionLevels solves q1·ef + e1 = q2·ef + e2 for every unordered pair of
// distinct charges, including pairs never realized on the envelope, and reports
// each level relative to baseShift.
//
// Complexity: O(n²).
func TransitionLevels(lines []energyline.EnergyLine, baseShift float64) Levels {
	out := make(Levels, len(lines)*(len(lines)-1)/2+1)
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			a, b := lines[i], lines[j]
			if a.Charge == b.Charge {
				continue
			}
			ef := -(a.Intercept() - b.Intercept()) / (a.Slope() - b.Slope())
			out[Pair(a.Charge, b.Charge)] = ef - baseShift
		}
	}

	return out
}

// EnergyAtEF returns the minimum energy over lines at ef and the charge that
// attains it. Ties keep the first line in input order. A NaN or infinite ef
// yields ErrNonFiniteFermiLevel.
func EnergyAtEF(lines []energyline.EnergyLine, ef float64) (float64, int, error) {
	if len(lines) == 0 {
		return 0, 0, envelope.ErrNoLines
	}
	if math.IsNaN(ef) || math.IsInf(ef, 0) {
		return 0, 0, fmt.Errorf("%w: %g", ErrNonFiniteFermiLevel, ef)
	}
	best, charge := math.Inf(1), lines[0].Charge
	for _, l := range lines {
		if e := l.EnergyAt(ef); e < best {
			best, charge = e, l.Charge
		}
	}

	return best, charge, nil
}

// StableCharges returns the charges that are the unique minimizer somewhere in
// [efMin, efMax], read from the segments of the lower envelope.
func StableCharges(lines []energyline.EnergyLine, efMin, efMax float64, opts ...envelope.Option) (ChargeSet, error) {
	cp, err := envelope.Solve(lines, efMin, efMax, opts...)
	if err != nil {
		return nil, err
	}

	return NewChargeSet(cp.Charges()...), nil
}

// CrossPoints solves the envelope with the Fermi level referenced to baseShift:
// lines are slid by baseShift and the domain becomes [efMin-baseShift, efMax-baseShift].
func CrossPoints(lines []energyline.EnergyLine, efMin, efMax, baseShift float64, opts ...envelope.Option) (envelope.CrossPointSet, error) {
	shifted := make([]energyline.EnergyLine, len(lines))
	for i, l := range lines {
		l.BaseEnergy += l.Slope() * baseShift
		shifted[i] = l
	}

	return envelope.Solve(shifted, efMin-baseShift, efMax-baseShift, opts...)
}

// PinningOptions configures Pinning.
type PinningOptions struct {
	EFMin     float64 // lower bound of the allowed domain; -Inf means unbounded
	EFMax     float64 // upper bound of the allowed domain; +Inf means unbounded
	BaseShift float64 // reference of the reported levels
}

// PinningOption is a functional option for Pinning.
type PinningOption func(*PinningOptions)

// DefaultPinningOptions returns an unbounded domain and a zero base.
func DefaultPinningOptions() PinningOptions {
	return PinningOptions{EFMin: math.Inf(-1), EFMax: math.Inf(1)}
}

// WithDomain restricts reported bounds to [efMin, efMax], expressed in the
// same reference as the reported levels.
func WithDomain(efMin, efMax float64) PinningOption {
	return func(o *PinningOptions) {
		o.EFMin, o.EFMax = efMin, efMax
	}
}

// WithBaseShift reports levels relative to base.
func WithBaseShift(base float64) PinningOption {
	return func(o *PinningOptions) { o.BaseShift = base }
}

// Pinning computes the Fermi levels at which the formation energy of a donor
// (q > 0) or acceptor (q < 0) state crosses zero.
//
//   - Lower: max over q > 0 of -intercept/q.
//   - Upper: min over q < 0 of -intercept/q.
//   - Neutral lines never pin and are skipped.
//
// A bound outside the configured domain, or with no qualifying charge, is
// reported with Found == false. Equal candidates keep the first in input order.
func Pinning(lines []energyline.EnergyLine, opts ...PinningOption) PinningLevel {
	cfg := DefaultPinningOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	lower, upper := noLower(), noUpper()
	for _, l := range lines {
		if l.Charge == 0 {
			continue
		}
		level := -l.Intercept()/l.Slope() - cfg.BaseShift
		if l.Charge > 0 {
			if !lower.Found || level > lower.Level {
				lower = PinningBound{Level: level, Charge: l.Charge, Found: true}
			}
			continue
		}
		if !upper.Found || level < upper.Level {
			upper = PinningBound{Level: level, Charge: l.Charge, Found: true}
		}
	}

	if lower.Found && lower.Level < cfg.EFMin {
		lower = noLower()
	}
	if upper.Found && upper.Level > cfg.EFMax {
		upper = noUpper()
	}

	return PinningLevel{Lower: lower, Upper: upper}
}
