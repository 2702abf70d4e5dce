// SPDX-License-Identifier: MIT

package summary

import (
	"errors"
	"sort"
)

// Sentinel errors returned by the summary package.
var (
	// ErrUnknownCondition indicates a chemical potential label absent from RelChemPots.
	ErrUnknownCondition = errors.New("summary: unknown chemical potential condition")

	// ErrInconsistentInfo indicates per-charge records of one defect that disagree
	// (different atom exchange, repeated charge).
	ErrInconsistentInfo = errors.New("summary: inconsistent defect records")
)

// Energy is the formation energy of one charge state before the reservoir term.
type Energy struct {
	FormationEnergy float64            `yaml:"formation_energy" msgpack:"formation_energy"`
	Corrections     map[string]float64 `yaml:"energy_corrections,omitempty" msgpack:"energy_corrections"`
	Shallow         *bool              `yaml:"is_shallow,omitempty" msgpack:"is_shallow"`
}

// TotalCorrection sums the correction terms in sorted-key order.
func (e Energy) TotalCorrection() float64 {
	keys := make([]string, 0, len(e.Corrections))
	for k := range e.Corrections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sum float64
	for _, k := range keys {
		sum += e.Corrections[k]
	}

	return sum
}

// Value returns the formation energy, with the total correction added when
// withCorrection is set.
func (e Energy) Value(withCorrection bool) float64 {
	if withCorrection {
		return e.FormationEnergy + e.TotalCorrection()
	}

	return e.FormationEnergy
}

// IsShallow reports whether the state is known to be shallow.
func (e Energy) IsShallow() bool { return e.Shallow != nil && *e.Shallow }

// DefectRecords groups the charge states of one defect. Charges and Energies
// are parallel.
type DefectRecords struct {
	AtomIO   map[string]int `yaml:"atom_io" msgpack:"atom_io"`
	Charges  []int          `yaml:"charges" msgpack:"charges"`
	Energies []Energy       `yaml:"energies" msgpack:"energies"`
}

// Summary is the persisted energy data of every defect in one host.
//
// The Fermi level is referenced to the VBM. EMax defaults to CBM when nil.
type Summary struct {
	Title        string                        `yaml:"title" msgpack:"title"`
	Defects      map[string]DefectRecords      `yaml:"defect_energies" msgpack:"defect_energies"`
	RelChemPots  map[string]map[string]float64 `yaml:"rel_chem_pots" msgpack:"rel_chem_pots"`
	CBM          float64                       `yaml:"cbm" msgpack:"cbm"`
	SupercellVBM float64                       `yaml:"supercell_vbm" msgpack:"supercell_vbm"`
	SupercellCBM float64                       `yaml:"supercell_cbm" msgpack:"supercell_cbm"`
	EMin         float64                       `yaml:"e_min" msgpack:"e_min"`
	EMax         *float64                      `yaml:"e_max,omitempty" msgpack:"e_max"`
}

// Domain returns the Fermi-level window [EMin, EMax or CBM].
func (s *Summary) Domain() (efMin, efMax float64) {
	if s.EMax != nil {
		return s.EMin, *s.EMax
	}

	return s.EMin, s.CBM
}

// Names returns the defect names in sorted order.
func (s *Summary) Names() []string {
	names := make([]string, 0, len(s.Defects))
	for n := range s.Defects {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// Conditions returns the chemical potential labels in sorted order.
func (s *Summary) Conditions() []string {
	labels := make([]string, 0, len(s.RelChemPots))
	for l := range s.RelChemPots {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	return labels
}
