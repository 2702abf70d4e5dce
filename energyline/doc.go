// SPDX-License-Identifier: MIT

// Package energyline models the formation energy of a point defect as a set of
// affine functions of the Fermi level, one per charge state.
//
// Overview:
//
//   - An EnergyLine is E(ef) = BaseEnergy + Correction + Charge·ef.
//   - A DefectEnergy groups the lines of one defect species under a single name.
//     It stores the raw parallel sequences (charges, energies, corrections) and
//     derives its EnergyLine set on demand.
//   - MergeRawRecords builds DefectEnergy values in bulk from per-(name, charge)
//     records, applying the chemical-potential reservoir term and the optional
//     shallow-state filter.
//
// Invariants:
//
//   - Charges are unique within one DefectEnergy and at least one line exists.
//   - All energies and corrections are finite.
//   - A DefectEnergy is immutable after construction; Slide returns a copy.
//
// Error handling (sentinel errors):
//
//   - ErrMalformedInput:
//     Mismatched sequence lengths, duplicate charges, empty input, non-finite values,
//     or a missing chemical potential for an exchanged element.
//   - ErrNoStableCharge:
//     A name lost every charge to the shallow filter. MergeRawRecords never returns it;
//     it reports the skipped names instead, and callers may use the sentinel to
//     label those names uniformly.
//
// Shallow flags are carried as a pass-through attribute. Nothing in this package or
// in the envelope solver branches on them except the explicit builder filter.
package energyline
