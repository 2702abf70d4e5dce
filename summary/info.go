// SPDX-License-Identifier: MIT

package summary

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// InfoFileName is the conventional name of a per-calculation Info file.
const InfoFileName = "defect_energy_info.yaml"

// Info is the energy record of one (defect, charge) calculation.
type Info struct {
	Name            string             `yaml:"name"`
	Charge          int                `yaml:"charge"`
	FormationEnergy float64            `yaml:"formation_energy"`
	AtomIO          map[string]int     `yaml:"atom_io"`
	Corrections     map[string]float64 `yaml:"energy_corrections"`
	Shallow         *bool              `yaml:"is_shallow"`
}

// Energy returns the charge-state energy carried by the record.
func (i Info) Energy() Energy {
	return Energy{FormationEnergy: i.FormationEnergy, Corrections: i.Corrections, Shallow: i.Shallow}
}

// LoadInfo reads an Info YAML file. An absent or null atom_io becomes empty.
func LoadInfo(path string) (Info, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("summary: read info %s: %w", path, err)
	}
	var info Info
	if err := yaml.Unmarshal(b, &info); err != nil {
		return Info{}, fmt.Errorf("summary: parse info %s: %w", path, err)
	}
	if info.AtomIO == nil {
		info.AtomIO = map[string]int{}
	}

	return info, nil
}

// SaveInfo writes info as YAML.
func SaveInfo(path string, info Info) error {
	b, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("summary: encode info: %w", err)
	}

	return writeAtomic(path, b)
}

// BandEdges are the band-edge energies stored with a Summary, relative to the VBM.
type BandEdges struct {
	CBM          float64
	SupercellVBM float64
	SupercellCBM float64
}

// FromInfos groups per-charge records by defect name.
//
// Records of one defect must agree on AtomIO and must not repeat a charge
// (ErrInconsistentInfo). Charges keep the order in which they are given.
// EMin is 0 (the VBM) and EMax is left unset, i.e. the CBM.
func FromInfos(title string, infos []Info, relChemPots map[string]map[string]float64, edges BandEdges) (*Summary, error) {
	s := &Summary{
		Title:        title,
		Defects:      make(map[string]DefectRecords),
		RelChemPots:  relChemPots,
		CBM:          edges.CBM,
		SupercellVBM: edges.SupercellVBM,
		SupercellCBM: edges.SupercellCBM,
	}
	for _, info := range infos {
		rec, ok := s.Defects[info.Name]
		if !ok {
			rec = DefectRecords{AtomIO: maps.Clone(info.AtomIO)}
		} else if !maps.Equal(rec.AtomIO, info.AtomIO) {
			return nil, fmt.Errorf("%w: %q atom_io %v differs from %v",
				ErrInconsistentInfo, info.Name, info.AtomIO, rec.AtomIO)
		}
		for _, q := range rec.Charges {
			if q == info.Charge {
				return nil, fmt.Errorf("%w: %q repeats charge %d", ErrInconsistentInfo, info.Name, q)
			}
		}
		rec.Charges = append(rec.Charges, info.Charge)
		rec.Energies = append(rec.Energies, info.Energy())
		s.Defects[info.Name] = rec
	}

	return s, nil
}
