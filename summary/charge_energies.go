// SPDX-License-Identifier: MIT

package summary

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/defectlevels/diagram"
	"github.com/katalvlaran/defectlevels/energyline"
	"github.com/katalvlaran/defectlevels/label"
)

// ChargeEnergies is the line set of every defect under one chemical potential
// condition, ready for the envelope solver.
type ChargeEnergies struct {
	Condition  string
	Defects    []energyline.DefectEnergy // sorted by stored name
	Skipped    []string                  // no charge state left after the shallow filter
	Failed     []energyline.Failure
	EMin, EMax float64
}

// ChargeEnergies applies the reservoir term of condition to every defect.
//
// Steps:
//  1. Resolve the relative chemical potentials of condition (ErrUnknownCondition).
//  2. Flatten the records in sorted name order and merge them with
//     energyline.MergeRawRecords, honouring allowShallow and withCorrection.
//  3. Rename the defects with label.Sanitize unless style is StyleNone.
//
// Per-defect problems are reported in Skipped and Failed, never as an error.
func (s *Summary) ChargeEnergies(condition string, allowShallow, withCorrection bool, style label.Style) (ChargeEnergies, error) {
	chemPot, ok := s.RelChemPots[condition]
	if !ok {
		return ChargeEnergies{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownCondition, condition, s.Conditions())
	}

	// 2) flatten
	var records []energyline.RawRecord
	for _, name := range s.Names() {
		rec := s.Defects[name]
		if len(rec.Charges) != len(rec.Energies) {
			return ChargeEnergies{}, fmt.Errorf("%w: %q has %d charges and %d energies",
				ErrInconsistentInfo, name, len(rec.Charges), len(rec.Energies))
		}
		for i, q := range rec.Charges {
			e := rec.Energies[i]
			records = append(records, energyline.RawRecord{
				Name:        name,
				Charge:      q,
				RelEnergy:   e.FormationEnergy,
				AtomIO:      rec.AtomIO,
				Corrections: e.Corrections,
				Shallow:     e.Shallow,
			})
		}
	}
	merged := energyline.MergeRawRecords(records, chemPot,
		energyline.WithAllowShallow(allowShallow),
		energyline.WithCorrection(withCorrection))

	// 3) presentation names; StyleNone keeps the stored names
	if style != label.StyleNone {
		names := make([]string, len(merged.Defects))
		for i, d := range merged.Defects {
			names[i] = d.Name()
		}
		for i, n := range label.Sanitize(names, style) {
			merged.Defects[i] = merged.Defects[i].Rename(n)
		}
	}

	efMin, efMax := s.Domain()

	return ChargeEnergies{
		Condition: condition,
		Defects:   merged.Defects,
		Skipped:   merged.Skipped,
		Failed:    merged.Failed,
		EMin:      efMin,
		EMax:      efMax,
	}, nil
}

// Diagram aggregates the line sets over [EMin, EMax]. Defects skipped or
// failed while merging are carried into the diagram alongside the ones
// rejected by the solver.
func (c ChargeEnergies) Diagram(ctx context.Context, opts ...diagram.Option) (*diagram.Diagram, error) {
	d, err := diagram.AggregateDefects(ctx, c.Defects, c.EMin, c.EMax, opts...)
	if err != nil {
		return nil, err
	}
	d.Skipped = append(d.Skipped, c.Skipped...)
	sort.Strings(d.Skipped)
	d.Failures = append(d.Failures, c.Failed...)
	sort.SliceStable(d.Failures, func(i, j int) bool { return d.Failures[i].Name < d.Failures[j].Name })

	return d, nil
}
