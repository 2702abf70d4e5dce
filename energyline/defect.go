// SPDX-License-Identifier: MIT

package energyline

import (
	"fmt"
	"strings"
)

// DefectEnergy is a named defect species with one energy line per charge state.
//
// The parallel sequences keep their input order; that order is the documented
// tie-break order for every downstream query (see transition.EnergyAtEF).
type DefectEnergy struct {
	name        string
	charges     []int
	energies    []float64 // raw, uncorrected
	corrections []float64
	shallow     []bool // optional pass-through, len(shallow) == len(charges) when set
}

// New validates the parallel sequences and returns an immutable DefectEnergy.
//
// Validation (in order):
//  1. At least one charge (ErrMalformedInput).
//  2. len(energies) == len(corrections) == len(charges) (ErrMalformedInput).
//  3. Charges are unique (ErrMalformedInput).
//  4. Energies and corrections are finite (ErrMalformedInput).
//
// The input slices are copied.
func New(name string, charges []int, energies, corrections []float64) (DefectEnergy, error) {
	n := len(charges)
	if n == 0 {
		return DefectEnergy{}, fmt.Errorf("%w: %q has no charge states", ErrMalformedInput, name)
	}
	if len(energies) != n || len(corrections) != n {
		return DefectEnergy{}, fmt.Errorf("%w: %q has %d charges, %d energies, %d corrections",
			ErrMalformedInput, name, n, len(energies), len(corrections))
	}

	seen := make(map[int]struct{}, n)
	var i int
	for i = 0; i < n; i++ {
		if _, dup := seen[charges[i]]; dup {
			return DefectEnergy{}, fmt.Errorf("%w: %q repeats charge %d", ErrMalformedInput, name, charges[i])
		}
		seen[charges[i]] = struct{}{}
		if isNonFinite(energies[i]) || isNonFinite(corrections[i]) {
			return DefectEnergy{}, fmt.Errorf("%w: %q charge %d has a non-finite energy or correction",
				ErrMalformedInput, name, charges[i])
		}
	}

	return DefectEnergy{
		name:        name,
		charges:     append([]int(nil), charges...),
		energies:    append([]float64(nil), energies...),
		corrections: append([]float64(nil), corrections...),
	}, nil
}

// MustNew is like New but panics on error. Intended for fixtures and examples.
func MustNew(name string, charges []int, energies, corrections []float64) DefectEnergy {
	d, err := New(name, charges, energies, corrections)
	if err != nil {
		panic(err)
	}

	return d
}

// WithShallow returns a copy of d carrying per-charge shallow flags.
// The flags are not interpreted here; they are passed through to reporting.
func (d DefectEnergy) WithShallow(flags []bool) (DefectEnergy, error) {
	if len(flags) != len(d.charges) {
		return DefectEnergy{}, fmt.Errorf("%w: %q has %d charges but %d shallow flags",
			ErrMalformedInput, d.name, len(d.charges), len(flags))
	}
	out := d.clone()
	out.shallow = append([]bool(nil), flags...)

	return out, nil
}

// Name returns the defect identifier.
func (d DefectEnergy) Name() string { return d.name }

// Len returns the number of charge states.
func (d DefectEnergy) Len() int { return len(d.charges) }

// Charges returns a copy of the charge sequence.
func (d DefectEnergy) Charges() []int { return append([]int(nil), d.charges...) }

// Energies returns a copy of the raw energy sequence.
func (d DefectEnergy) Energies() []float64 { return append([]float64(nil), d.energies...) }

// Corrections returns a copy of the correction sequence.
func (d DefectEnergy) Corrections() []float64 { return append([]float64(nil), d.corrections...) }

// Shallow reports the pass-through shallow flag of the i-th charge state.
// The second result is false when no flags were attached.
func (d DefectEnergy) Shallow(i int) (bool, bool) {
	if d.shallow == nil || i < 0 || i >= len(d.shallow) {
		return false, false
	}

	return d.shallow[i], true
}

// ShallowCharges returns the charges flagged shallow, in input order.
func (d DefectEnergy) ShallowCharges() []int {
	var out []int
	for i, s := range d.shallow {
		if s {
			out = append(out, d.charges[i])
		}
	}

	return out
}

// Lines derives the EnergyLine set in input order.
func (d DefectEnergy) Lines() []EnergyLine {
	lines := make([]EnergyLine, len(d.charges))
	for i := range d.charges {
		lines[i] = EnergyLine{
			Charge:     d.charges[i],
			BaseEnergy: d.energies[i],
			Correction: d.corrections[i],
		}
	}

	return lines
}

// Rename returns a copy of d under a new name. Used for presentation labels.
func (d DefectEnergy) Rename(name string) DefectEnergy {
	out := d.clone()
	out.name = name

	return out
}

// Slide re-references the Fermi level by base: every raw energy is shifted by
// charge·base, so that E'(ef) = E(ef + base). Corrections are untouched.
func (d DefectEnergy) Slide(base float64) DefectEnergy {
	out := d.clone()
	for i, q := range out.charges {
		out.energies[i] += float64(q) * base
	}

	return out
}

// String renders one row per charge state: name, charge, raw energy, correction.
func (d DefectEnergy) String() string {
	rows := make([]string, len(d.charges))
	for i := range d.charges {
		rows[i] = fmt.Sprintf("%10s %4d %12.4f %12.4f", d.name, d.charges[i], d.energies[i], d.corrections[i])
	}

	return strings.Join(rows, "\n")
}

func (d DefectEnergy) clone() DefectEnergy {
	out := DefectEnergy{
		name:        d.name,
		charges:     append([]int(nil), d.charges...),
		energies:    append([]float64(nil), d.energies...),
		corrections: append([]float64(nil), d.corrections...),
	}
	if d.shallow != nil {
		out.shallow = append([]bool(nil), d.shallow...)
	}

	return out
}
