package envelope_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/defectlevels/energyline"
	"github.com/katalvlaran/defectlevels/envelope"
)

// vacancyLines returns the lines of charges {0,1,2} with energies {4,2,-4} and
// corrections {2,1,0}: E0 = 6, E1 = 3+ef, E2 = -4+2ef.
func vacancyLines() []energyline.EnergyLine {
	return []energyline.EnergyLine{
		{Charge: 0, BaseEnergy: 4, Correction: 2},
		{Charge: 1, BaseEnergy: 2, Correction: 1},
		{Charge: 2, BaseEnergy: -4, Correction: 0},
	}
}

func TestSolve_Vacancy(t *testing.T) {
	cp, err := envelope.Solve(vacancyLines(), 1, 6)
	require.NoError(t, err)

	assert.Equal(t, [][2]float64{{1, -2}, {5, 6}, {6, 6}}, cp.AllSortedPoints())
	assert.Equal(t, [][2]float64{{5, 6}}, cp.InnerCrossPoints())
	assert.Equal(t, [][2]float64{{1, -2}, {6, 6}}, cp.BoundaryPoints())
	assert.Equal(t, []int{2, 0}, cp.Charges(), "charge 1 is dominated on the whole domain")
	assert.Equal(t, "      1.0000      -2.0000\n      5.0000       6.0000\n      6.0000       6.0000", cp.String())
}

func TestSolve_SingleLine(t *testing.T) {
	lines := []energyline.EnergyLine{{Charge: -1, BaseEnergy: 2}}
	cp, err := envelope.Solve(lines, 0, 3)
	require.NoError(t, err)

	assert.Equal(t, [][2]float64{{0, 2}, {3, -1}}, cp.BoundaryPoints())
	assert.Empty(t, cp.InnerCrossPoints())
	assert.Equal(t, []int{-1}, cp.Charges())
}

func TestSolve_IdenticalLinesKeepOne(t *testing.T) {
	lines := []energyline.EnergyLine{
		{Charge: 1, BaseEnergy: 1},
		{Charge: 1, BaseEnergy: 0.5, Correction: 0.5},
		{Charge: 0, BaseEnergy: 2},
	}
	cp, err := envelope.Solve(lines, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{0, 1}, {1, 2}, {4, 2}}, cp.AllSortedPoints())
	assert.Equal(t, []int{1, 0}, cp.Charges())
}

func TestSolve_LineThroughCrossingIsDominated(t *testing.T) {
	lines := []energyline.EnergyLine{
		{Charge: 1},
		{Charge: 0},
		{Charge: -1},
	}
	cp, err := envelope.Solve(lines, -1, 1)
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{-1, -1}, {0, 0}, {1, -1}}, cp.AllSortedPoints())
	assert.Equal(t, []int{1, -1}, cp.Charges())
}

func TestSolve_CrossingNearEdgeIsBoundary(t *testing.T) {
	lines := []energyline.EnergyLine{
		{Charge: 0},
		{Charge: 1, BaseEnergy: -0.0005},
	}
	cp, err := envelope.Solve(lines, 0, 1)
	require.NoError(t, err)

	assert.Empty(t, cp.InnerCrossPoints())
	assert.Equal(t, [][2]float64{{0, -0.0005}, {0.0005, 0}, {1, 0}}, cp.BoundaryPoints())
	assert.Equal(t, []int{1, 0}, cp.Charges())

	// A narrower epsilon promotes the crossing to Interior.
	cp, err = envelope.Solve(lines, 0, 1, envelope.WithDomainEpsilon(1e-4))
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{0.0005, 0}}, cp.InnerCrossPoints())
}

func TestSolve_CrossingOnEdgeCoincides(t *testing.T) {
	lines := []energyline.EnergyLine{
		{Charge: 1},
		{Charge: 0},
	}
	cp, err := envelope.Solve(lines, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{0, 0}, {2, 0}}, cp.AllSortedPoints())
	assert.Equal(t, []int{0}, cp.Charges())

	cp, err = envelope.Solve(lines, -2, 0)
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{-2, -2}, {0, 0}}, cp.AllSortedPoints())
	assert.Equal(t, []int{1}, cp.Charges())
}

func TestSolve_CrossingsOutsideDomain(t *testing.T) {
	cp, err := envelope.Solve(vacancyLines(), 5.5, 7)
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{5.5, 6}, {7, 6}}, cp.AllSortedPoints())
	assert.Equal(t, []int{0}, cp.Charges())
}

func TestSolve_Errors(t *testing.T) {
	_, err := envelope.Solve(nil, 0, 1)
	assert.ErrorIs(t, err, envelope.ErrNoLines)

	_, err = envelope.Solve(vacancyLines(), 1, 1)
	assert.ErrorIs(t, err, envelope.ErrEmptyDomain)

	_, err = envelope.Solve(vacancyLines(), 2, 1)
	assert.ErrorIs(t, err, envelope.ErrEmptyDomain)

	_, err = envelope.Solve(vacancyLines(), math.Inf(-1), 1)
	assert.ErrorIs(t, err, envelope.ErrEmptyDomain)

	_, err = envelope.Solve([]energyline.EnergyLine{{Charge: 0, BaseEnergy: math.NaN()}}, 0, 1)
	assert.ErrorIs(t, err, envelope.ErrEnvelopeDegenerate)
}

// TestSolve_NearlyConcurrentLines perturbs seven lines through (3, 1) by far
// less than the coordinate resolution; the slivers between them must collapse
// into a single crossing.
func TestSolve_NearlyConcurrentLines(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 2000; trial++ {
		lines := make([]energyline.EnergyLine, 0, 7)
		for q := -3; q <= 3; q++ {
			lines = append(lines, energyline.EnergyLine{
				Charge:     q,
				BaseEnergy: 1 - 3*float64(q) + (rng.Float64()-0.5)*1e-12,
			})
		}
		cp, err := envelope.Solve(lines, 0, 5)
		require.NoError(t, err, "trial %d", trial)
		require.Equal(t, [][2]float64{{0, -8}, {3, 1}, {5, -5}}, cp.AllSortedPoints(), "trial %d", trial)
		require.Equal(t, []int{3, -3}, cp.Charges(), "trial %d", trial)
	}
}

func TestValidateDomain(t *testing.T) {
	require.NoError(t, envelope.ValidateDomain(-1, 1))
	for _, d := range [][2]float64{{1, 1}, {2, 1}, {math.NaN(), 1}, {0, math.Inf(1)}} {
		assert.ErrorIs(t, envelope.ValidateDomain(d[0], d[1]), envelope.ErrEmptyDomain, "%v", d)
	}
}

func TestSolve_Deterministic(t *testing.T) {
	lines := vacancyLines()
	a, err := envelope.Solve(lines, 0, 10)
	require.NoError(t, err)
	b, err := envelope.Solve(lines, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	permuted := []energyline.EnergyLine{lines[2], lines[0], lines[1]}
	c, err := envelope.Solve(permuted, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, a, c, "unique charges make the result independent of input order")
}

// TestSolve_MatchesPointwiseMinimum checks random line sets against a direct
// evaluation of the minimum at every vertex and segment midpoint.
func TestSolve_MatchesPointwiseMinimum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const trials = 200
	for trial := 0; trial < trials; trial++ {
		n := 1 + rng.Intn(7)
		perm := rng.Perm(9)
		lines := make([]energyline.EnergyLine, n)
		for i := range lines {
			lines[i] = energyline.EnergyLine{
				Charge:     perm[i] - 4,
				BaseEnergy: rng.Float64()*10 - 5,
				Correction: rng.Float64() - 0.5,
			}
		}
		efMin := rng.Float64()*2 - 1
		efMax := efMin + 0.5 + rng.Float64()*3

		cp, err := envelope.Solve(lines, efMin, efMax)
		require.NoError(t, err, "trial %d", trial)

		vs := cp.Vertices()
		require.GreaterOrEqual(t, len(vs), 2)
		assert.Equal(t, envelope.Boundary, vs[0].Kind)
		assert.Equal(t, envelope.Boundary, vs[len(vs)-1].Kind)
		for _, v := range vs {
			lo, _ := minAt(lines, v.EF)
			assert.InDelta(t, lo, v.Energy, 1e-6, "trial %d vertex %v", trial, v)
		}
		for i, q := range cp.Charges() {
			mid := (vs[i].EF + vs[i+1].EF) / 2
			_, arg := minAt(lines, mid)
			assert.Equal(t, arg, q, "trial %d segment %d", trial, i)
		}
	}
}

func minAt(lines []energyline.EnergyLine, ef float64) (float64, int) {
	best, arg := math.Inf(1), 0
	for _, l := range lines {
		if e := l.EnergyAt(ef); e < best {
			best, arg = e, l.Charge
		}
	}

	return best, arg
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { envelope.WithDomainEpsilon(-1) })
	assert.Panics(t, func() { envelope.WithDomainEpsilon(math.NaN()) })
	assert.Panics(t, func() { envelope.WithChargeRoundTol(0.5) })
	assert.Panics(t, func() { envelope.WithCoordinateTol(0) })

	o := envelope.Resolve(envelope.WithDomainEpsilon(0.01), envelope.WithChargeRoundTol(1e-3))
	assert.Equal(t, 0.01, o.DomainEpsilon())
	assert.Equal(t, 1e-3, o.ChargeRoundTol())
	assert.Equal(t, envelope.DefaultCoordinateTol, o.CoordinateTol())
}
