// SPDX-License-Identifier: MIT

// Package diagram combines the envelopes of many independent defects over one
// shared Fermi-level domain into a charge-transition diagram summary.
//
// For every defect it computes the CrossPointSet, the pairwise transition
// levels and the pinning level inside the domain. Across defects it provides
// the global plotting energy range and the pass-through shallow-state flags.
//
// Failure policy:
//
//   - A defect whose raw data is malformed (energyline.ErrMalformedInput) or
//     whose envelope is degenerate (envelope.ErrEnvelopeDegenerate) is excluded
//     and recorded in Diagram.Failures. The rest of the diagram is unaffected.
//   - An empty domain (envelope.ErrEmptyDomain) aborts Aggregate before any
//     work starts, since no partial result is meaningful.
//   - Nothing is retried; every computation is deterministic.
//
// Concurrency:
//
//	Defects are solved in parallel with errgroup, bounded by WithWorkers. Each
//	unit writes only its own result slot, so no locking is needed. Entries and
//	failures are sorted by name after all units complete, which makes the output
//	independent of scheduling.
package diagram
