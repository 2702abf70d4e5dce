// SPDX-License-Identifier: MIT

package energyline

import (
	"fmt"
	"sort"
)

// RawRecord is one externally computed (name, charge) energy entry.
//
// AtomIO counts exchanged atoms per element (positive: added to the host,
// negative: removed). Corrections holds named correction terms whose sum is the
// total correction of the charge state.
type RawRecord struct {
	Name        string
	Charge      int
	RelEnergy   float64
	AtomIO      map[string]int
	Corrections map[string]float64
	Shallow     *bool // nil when unknown
}

// TotalCorrection sums the correction terms in sorted-key order, so that the
// floating-point result does not depend on map iteration order.
func (r RawRecord) TotalCorrection() float64 {
	keys := make([]string, 0, len(r.Corrections))
	for k := range r.Corrections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sum float64
	for _, k := range keys {
		sum += r.Corrections[k]
	}

	return sum
}

// Reservoir returns -Σ AtomIO[elem]·chemPot[elem]. A missing element yields
// ErrMalformedInput.
func Reservoir(atomIO map[string]int, chemPot map[string]float64) (float64, error) {
	elems := make([]string, 0, len(atomIO))
	for e := range atomIO {
		elems = append(elems, e)
	}
	sort.Strings(elems)

	var sum float64
	for _, e := range elems {
		mu, ok := chemPot[e]
		if !ok {
			return 0, fmt.Errorf("%w: no chemical potential for element %q", ErrMalformedInput, e)
		}
		sum -= float64(atomIO[e]) * mu
	}

	return sum, nil
}

// Failure pairs a defect name with the error that excluded it.
type Failure struct {
	Name string
	Err  error
}

// Error implements error.
func (f Failure) Error() string { return fmt.Sprintf("%s: %v", f.Name, f.Err) }

// Unwrap exposes the underlying sentinel to errors.Is.
func (f Failure) Unwrap() error { return f.Err }

// MergeResult is the outcome of MergeRawRecords.
type MergeResult struct {
	Defects []DefectEnergy // one per name, first-seen order
	Skipped []string       // names left without charges by the shallow filter
	Failed  []Failure      // names whose records could not form a DefectEnergy
}

// MergeOptions configures MergeRawRecords.
type MergeOptions struct {
	AllowShallow   bool // keep charges flagged shallow
	WithCorrection bool // carry correction terms; false zeroes them
}

// MergeOption is a functional option for MergeRawRecords.
type MergeOption func(*MergeOptions)

// DefaultMergeOptions keeps shallow states and corrections.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{AllowShallow: true, WithCorrection: true}
}

// WithAllowShallow toggles whether shallow charge states survive the merge.
func WithAllowShallow(allow bool) MergeOption {
	return func(o *MergeOptions) { o.AllowShallow = allow }
}

// WithCorrection toggles whether correction terms are carried into the lines.
func WithCorrection(with bool) MergeOption {
	return func(o *MergeOptions) { o.WithCorrection = with }
}

// MergeRawRecords groups records by name and builds one DefectEnergy per name.
//
// Steps:
//  1. Group records by Name, preserving first-seen order of names and records.
//  2. Drop records flagged shallow unless AllowShallow.
//  3. Energy = RelEnergy + Reservoir(AtomIO, chemPot); correction = TotalCorrection.
//  4. Names left empty go to Skipped; construction failures go to Failed.
//
// Per-name problems never abort the merge.
func MergeRawRecords(records []RawRecord, chemPot map[string]float64, opts ...MergeOption) MergeResult {
	cfg := DefaultMergeOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 1) group by name in first-seen order
	var order []string
	groups := make(map[string][]RawRecord)
	for _, r := range records {
		if _, ok := groups[r.Name]; !ok {
			order = append(order, r.Name)
		}
		groups[r.Name] = append(groups[r.Name], r)
	}

	var res MergeResult
	for _, name := range order {
		var (
			charges     []int
			energies    []float64
			corrections []float64
			shallow     []bool
			failed      error
		)
		for _, r := range groups[name] {
			isShallow := r.Shallow != nil && *r.Shallow
			// 2) shallow filter
			if !cfg.AllowShallow && isShallow {
				continue
			}
			// 3) reservoir term
			reservoir, err := Reservoir(r.AtomIO, chemPot)
			if err != nil {
				failed = err
				break
			}
			corr := 0.0
			if cfg.WithCorrection {
				corr = r.TotalCorrection()
			}
			charges = append(charges, r.Charge)
			energies = append(energies, r.RelEnergy+reservoir)
			corrections = append(corrections, corr)
			shallow = append(shallow, isShallow)
		}

		if failed != nil {
			res.Failed = append(res.Failed, Failure{Name: name, Err: failed})
			continue
		}
		// 4) empty after filtering: not an error
		if len(charges) == 0 {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		d, err := New(name, charges, energies, corrections)
		if err == nil {
			d, err = d.WithShallow(shallow)
		}
		if err != nil {
			res.Failed = append(res.Failed, Failure{Name: name, Err: err})
			continue
		}
		res.Defects = append(res.Defects, d)
	}

	return res
}
