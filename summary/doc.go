// SPDX-License-Identifier: MIT

// Package summary holds the persisted per-defect energy records of one host
// material and turns them into validated line sets for a chosen chemical
// potential condition.
//
// A Summary stores, per defect name, the exchanged atoms and one Energy per
// charge state, together with the relative chemical potentials of every
// condition and the band-edge data that fix the default Fermi-level domain.
//
// Workflow:
//
//	infos  -> FromInfos  -> Summary -> Save / Encode
//	Load / Decode -> Summary -> ChargeEnergies(label, ...) -> diagram
//
// Persistence uses YAML for files meant to be read by people and msgpack for
// the binary cache written between CLI runs.
package summary
