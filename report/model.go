// SPDX-License-Identifier: MIT

package report

import (
	"github.com/katalvlaran/defectlevels/diagram"
	"github.com/katalvlaran/defectlevels/envelope"
	"github.com/katalvlaran/defectlevels/transition"
)

// Doc is the serializable form of a diagram.
type Doc struct {
	EFMin     float64      `yaml:"ef_min" msgpack:"ef_min"`
	EFMax     float64      `yaml:"ef_max" msgpack:"ef_max"`
	Energy    *RangeDoc    `yaml:"energy_range,omitempty" msgpack:"energy_range"`
	Defects   []EntryDoc   `yaml:"defects" msgpack:"defects"`
	Excluded  []FailureDoc `yaml:"excluded,omitempty" msgpack:"excluded"`
	Skipped   []string     `yaml:"skipped,omitempty" msgpack:"skipped"`
	BaseShift float64      `yaml:"base_shift" msgpack:"base_shift"`
}

// RangeDoc is the plotting energy window.
type RangeDoc struct {
	Min float64 `yaml:"min" msgpack:"min"`
	Max float64 `yaml:"max" msgpack:"max"`
}

// EntryDoc is one defect of the diagram.
type EntryDoc struct {
	Name        string          `yaml:"name" msgpack:"name"`
	Points      []PointDoc      `yaml:"points" msgpack:"points"`
	Charges     []int           `yaml:"charges" msgpack:"charges"`
	Transitions []TransitionDoc `yaml:"transitions" msgpack:"transitions"`
	Pinning     PinningDoc      `yaml:"pinning" msgpack:"pinning"`
	Shallow     []int           `yaml:"shallow,omitempty" msgpack:"shallow"`
}

// PointDoc is one envelope vertex.
type PointDoc struct {
	EF     float64 `yaml:"ef" msgpack:"ef"`
	Energy float64 `yaml:"energy" msgpack:"energy"`
	Kind   string  `yaml:"kind" msgpack:"kind"`
}

// TransitionDoc is one thermodynamic transition level.
type TransitionDoc struct {
	Q1    int     `yaml:"q1" msgpack:"q1"`
	Q2    int     `yaml:"q2" msgpack:"q2"`
	Level float64 `yaml:"level" msgpack:"level"`
}

// PinningDoc holds the pinning bounds; a missing bound is nil.
type PinningDoc struct {
	Lower *BoundDoc `yaml:"lower,omitempty" msgpack:"lower"`
	Upper *BoundDoc `yaml:"upper,omitempty" msgpack:"upper"`
}

// BoundDoc is one found pinning bound.
type BoundDoc struct {
	Level  float64 `yaml:"level" msgpack:"level"`
	Charge int     `yaml:"charge" msgpack:"charge"`
}

// FailureDoc is one excluded defect.
type FailureDoc struct {
	Name  string `yaml:"name" msgpack:"name"`
	Error string `yaml:"error" msgpack:"error"`
}

// NewDoc converts d. margin < 0 omits the energy range.
func NewDoc(d *diagram.Diagram, margin float64) Doc {
	doc := Doc{EFMin: d.EFMin, EFMax: d.EFMax, Skipped: d.Skipped, BaseShift: d.BaseShift}
	if margin >= 0 {
		if lo, hi, ok := d.EnergyRange(margin); ok {
			doc.Energy = &RangeDoc{Min: lo, Max: hi}
		}
	}
	doc.Defects = make([]EntryDoc, len(d.Entries))
	for i, e := range d.Entries {
		doc.Defects[i] = newEntryDoc(e)
	}
	for _, f := range d.Failures {
		doc.Excluded = append(doc.Excluded, FailureDoc{Name: f.Name, Error: f.Err.Error()})
	}

	return doc
}

func newEntryDoc(e diagram.Entry) EntryDoc {
	return EntryDoc{
		Name:        e.Name,
		Points:      PointDocs(e.Points),
		Charges:     e.Points.Charges(),
		Transitions: TransitionDocs(e.Transitions),
		Pinning:     NewPinningDoc(e.Pinning),
		Shallow:     e.Shallow,
	}
}

// PointDocs converts the vertices of cp.
func PointDocs(cp envelope.CrossPointSet) []PointDoc {
	vs := cp.Vertices()
	out := make([]PointDoc, len(vs))
	for i, v := range vs {
		out[i] = PointDoc{EF: v.EF, Energy: v.Energy, Kind: v.Kind.String()}
	}

	return out
}

// TransitionDocs lists levels in canonical pair order.
func TransitionDocs(l transition.Levels) []TransitionDoc {
	pairs := l.Pairs()
	out := make([]TransitionDoc, len(pairs))
	for i, p := range pairs {
		out[i] = TransitionDoc{Q1: p.Q1, Q2: p.Q2, Level: l[p]}
	}

	return out
}

// NewPinningDoc drops bounds that were not found.
func NewPinningDoc(p transition.PinningLevel) PinningDoc {
	var doc PinningDoc
	if p.Lower.Found {
		doc.Lower = &BoundDoc{Level: p.Lower.Level, Charge: p.Lower.Charge}
	}
	if p.Upper.Found {
		doc.Upper = &BoundDoc{Level: p.Upper.Level, Charge: p.Upper.Charge}
	}

	return doc
}
