// SPDX-License-Identifier: MIT

// Package envelope computes the lower envelope of a finite set of affine
// energy lines on a closed Fermi-level interval [efMin, efMax].
//
// Overview:
//
//   - The feasible region {(ef, E) : E ≥ line(ef) for every line, efMin ≤ ef ≤ efMax}
//     is a 2-D half-plane intersection. Because all constraints bound E from
//     below, its lower boundary is the point-wise minimum of the lines.
//   - Solve builds that boundary directly with a monotonic chain: lines are
//     sorted by slope (charge) descending and pushed onto a stack; a line that
//     is never strictly minimal is popped. The chain is then clipped to the domain.
//   - The result is a CrossPointSet: vertices ordered by ef ascending, each tagged
//     Boundary or Interior, and the occupying charge of every segment.
//
// Vertex classification:
//
//   - Boundary: the two domain edges, plus any crossing lying within
//     DomainEpsilon of an edge (kept, so that every segment has an integer slope).
//   - Interior: crossings strictly inside (efMin+ε, efMax-ε); true transitions.
//   - A crossing closer than the coordinate tolerance to an edge coincides with
//     the edge and is not emitted twice.
//
// Dominance and ties:
//
//   - Lines with equal slope keep the lowest intercept; identical lines keep the
//     first in input order.
//   - A line that is minimal only at a single point (it passes exactly through
//     a crossing of two others) is dominated and does not occupy a segment.
//
// Charge recovery:
//
//   - Each segment charge is recovered from its slope ΔE/Δef and must round to an
//     integer within ChargeRoundTol. Otherwise Solve fails with ErrEnvelopeDegenerate.
//     This is a consistency check on the input, never a silent recovery.
//
// Complexity:
//
//   - Time:  O(n log n) for n lines (sorting dominates; the chain is linear).
//   - Space: O(n).
//
// Determinism:
//
//   - Sorting is stable with the input index as the final key, so identical input
//     yields bit-identical output regardless of map iteration elsewhere.
package envelope
