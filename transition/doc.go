// SPDX-License-Identifier: MIT

// Package transition derives the scientifically meaningful quantities of a
// defect's charge-state lines: transition levels, the stable charge at a
// Fermi level, the set of charges stable somewhere in a domain, and pinning levels.
//
// Reference frame:
//
//	Every function that takes a baseShift reports Fermi levels relative to it:
//	a quantity found at ef is reported as ef - baseShift. Shifting the base by
//	+0.1 eV therefore moves every reported level by -0.1 eV.
//
// Tie-breaking:
//
//	EnergyAtEF resolves equal energies in favour of the first line in input
//	order. Callers needing a canonical answer must pass lines in a canonical
//	charge order.
//
// StableCharges is derived from the envelope segments (package envelope), not
// from sampling, so a charge stable on an arbitrarily narrow interval is found.
package transition
