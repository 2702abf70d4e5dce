// SPDX-License-Identifier: MIT

package energyline

import (
	"errors"
	"math"
)

// Sentinel errors returned by the energyline package.
var (
	// ErrMalformedInput indicates that the raw sequences of a defect cannot form a
	// valid line set (length mismatch, duplicate charge, empty, non-finite value).
	ErrMalformedInput = errors.New("energyline: malformed input")

	// ErrNoStableCharge indicates that a defect has no charge state left after
	// shallow filtering. It denotes "no data" rather than a failure.
	ErrNoStableCharge = errors.New("energyline: no charge state left after filtering")
)

// EnergyLine is the formation energy of one charge state as a function of the
// Fermi level: E(ef) = BaseEnergy + Correction + Charge·ef.
type EnergyLine struct {
	Charge     int     // signed charge; slope of the line
	BaseEnergy float64 // raw (uncorrected) formation energy at ef = 0
	Correction float64 // additive defect-specific correction term
}

// Intercept returns the energy of the line at ef = 0, correction included.
func (l EnergyLine) Intercept() float64 {
	return l.BaseEnergy + l.Correction
}

// EnergyAt evaluates the line at Fermi level ef.
func (l EnergyLine) EnergyAt(ef float64) float64 {
	return l.BaseEnergy + l.Correction + float64(l.Charge)*ef
}

// Slope returns the charge as a float64.
func (l EnergyLine) Slope() float64 {
	return float64(l.Charge)
}

// isNonFinite reports whether x is NaN or ±Inf.
func isNonFinite(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}
