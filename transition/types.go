// SPDX-License-Identifier: MIT

package transition

import (
	"errors"
	"math"
	"sort"
)

// ErrNonFiniteFermiLevel indicates a NaN or infinite Fermi level query.
var ErrNonFiniteFermiLevel = errors.New("transition: non-finite Fermi level")

// ChargePair is an unordered pair of distinct charges, stored with Q1 < Q2.
type ChargePair struct {
	Q1, Q2 int
}

// Pair returns the canonical ChargePair of a and b.
func Pair(a, b int) ChargePair {
	if a > b {
		a, b = b, a
	}

	return ChargePair{Q1: a, Q2: b}
}

// Levels maps every charge pair to the Fermi level at which both lines are equal.
type Levels map[ChargePair]float64

// Lookup returns the level of the pair {a, b} in either order.
func (l Levels) Lookup(a, b int) (float64, bool) {
	v, ok := l[Pair(a, b)]

	return v, ok
}

// Pairs returns the keys sorted by (Q1, Q2).
func (l Levels) Pairs() []ChargePair {
	out := make([]ChargePair, 0, len(l))
	for p := range l {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Q1 != out[j].Q1 {
			return out[i].Q1 < out[j].Q1
		}

		return out[i].Q2 < out[j].Q2
	})

	return out
}

// ChargeSet is a set of charges.
type ChargeSet map[int]struct{}

// NewChargeSet builds a set from the given charges.
func NewChargeSet(qs ...int) ChargeSet {
	s := make(ChargeSet, len(qs))
	for _, q := range qs {
		s[q] = struct{}{}
	}

	return s
}

// Has reports membership.
func (s ChargeSet) Has(q int) bool {
	_, ok := s[q]

	return ok
}

// Sorted returns the members in ascending order.
func (s ChargeSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for q := range s {
		out = append(out, q)
	}
	sort.Ints(out)

	return out
}

// PinningBound is one side of a pinning level. When no charge qualifies,
// Found is false and Level is -Inf (lower side) or +Inf (upper side).
type PinningBound struct {
	Level  float64
	Charge int
	Found  bool
}

// PinningLevel bounds the Fermi level from below (donor self-compensation)
// and above (acceptor self-compensation).
type PinningLevel struct {
	Lower PinningBound
	Upper PinningBound
}

func noLower() PinningBound { return PinningBound{Level: math.Inf(-1)} }
func noUpper() PinningBound { return PinningBound{Level: math.Inf(1)} }
