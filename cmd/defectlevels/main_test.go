package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/defectlevels/report"
	"github.com/katalvlaran/defectlevels/summary"
)

func vacancyInfos() []summary.Info {
	o := map[string]int{"O": -1}
	pc := func(v float64) map[string]float64 { return map[string]float64{"PC correction": v} }

	return []summary.Info{
		{Name: "Va_O1", Charge: 0, FormationEnergy: 1, AtomIO: o, Corrections: pc(2)},
		{Name: "Va_O1", Charge: 1, FormationEnergy: -1, AtomIO: o, Corrections: pc(1)},
		{Name: "Va_O1", Charge: 2, FormationEnergy: -7, AtomIO: o, Corrections: pc(0)},
	}
}

// writeSummary stores a Va_O1 summary whose lines under condition "A" are
// E = 6, 3 + ef, -4 + 2 ef.
func writeSummary(t *testing.T) string {
	t.Helper()
	s, err := summary.FromInfos("MgO", vacancyInfos(),
		map[string]map[string]float64{"A": {"O": 3}}, summary.BandEdges{CBM: 6})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "summary.yaml")
	require.NoError(t, s.Save(path))

	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestEnvelopeCmd(t *testing.T) {
	out, _, err := run(t, "envelope", writeSummary(t), "--defect", "Va_O1", "--color", "off")
	require.NoError(t, err)
	assert.Equal(t, "      0.0000      -4.0000\n      5.0000       6.0000\n      6.0000       6.0000\ncharges: [2 0]\n", out)
}

func TestEnvelopeCmd_ConfigDomain(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[domain]\ne_min = 1.0\n"), 0o644))

	out, _, err := run(t, "--config", cfgPath, "envelope", writeSummary(t), "--defect", "Va_O1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "      1.0000      -2.0000\n"), out)
}

func TestTransitionsAndPinningCmd(t *testing.T) {
	path := writeSummary(t)
	out, _, err := run(t, "transitions", path, "--defect", "Va_O1", "--format", "yaml")
	require.NoError(t, err)
	var levels []report.TransitionDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &levels))
	assert.Equal(t, []report.TransitionDoc{
		{Q1: 0, Q2: 1, Level: 3}, {Q1: 0, Q2: 2, Level: 5}, {Q1: 1, Q2: 2, Level: 7},
	}, levels)

	out, _, err = run(t, "pinning", path, "--defect", "Va_O1")
	require.NoError(t, err)
	assert.Equal(t, "lower: 2.0000 (q=+2)\nupper: none\n", out)
}

func TestDiagramCmd(t *testing.T) {
	out, _, err := run(t, "diagram", writeSummary(t), "--condition", "A")
	require.NoError(t, err)
	assert.Contains(t, out, "Fermi level domain: [0.0000, 6.0000]")
	assert.Contains(t, out, "== Va_O1")
	assert.Contains(t, out, "Energy range: [-4.5000, 6.5000]")
}

func TestDiagramCmd_Errors(t *testing.T) {
	path := writeSummary(t)
	_, _, err := run(t, "diagram", path, "--condition", "Z")
	assert.Error(t, err)

	_, _, err = run(t, "diagram", path, "--format", "csv")
	assert.ErrorIs(t, err, report.ErrUnknownFormat)

	_, _, err = run(t, "envelope", path, "--defect", "Va_Mg1")
	assert.ErrorContains(t, err, "not found")

	_, _, err = run(t, "envelope", path)
	assert.Error(t, err, "--defect is required")
}

func TestMergeCmd(t *testing.T) {
	dir := t.TempDir()
	var args []string
	for i, info := range vacancyInfos() {
		p := filepath.Join(dir, "info"+string(rune('0'+i))+".yaml")
		require.NoError(t, summary.SaveInfo(p, info))
		args = append(args, p)
	}
	chem := filepath.Join(dir, "chem.yaml")
	require.NoError(t, os.WriteFile(chem, []byte("A:\n  O: 3\n"), 0o644))
	out := filepath.Join(dir, "summary.yaml")
	cache := filepath.Join(dir, "summary.mp")

	stdout, _, err := run(t, append([]string{"merge", "--chem-pots", chem, "--cbm", "6",
		"-o", out, "--cache", cache, "--show"}, args...)...)
	require.NoError(t, err)
	assert.Equal(t, "     Va_O1    0       4.0000       2.0000\n"+
		"     Va_O1    1       2.0000       1.0000\n"+
		"     Va_O1    2      -4.0000       0.0000\n", stdout)

	s, err := summary.Load(out)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, s.Defects["Va_O1"].Charges)

	envOut, _, err := run(t, "envelope", cache, "--defect", "Va_O1")
	require.NoError(t, err)
	assert.Contains(t, envOut, "charges: [2 0]")
}

func TestPlotCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "diagram.svg")
	_, _, err := run(t, "plot", writeSummary(t), "-o", out)
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<svg")

	_, _, err = run(t, "plot", writeSummary(t), "-o", filepath.Join(t.TempDir(), "diagram.gif"))
	assert.ErrorIs(t, err, report.ErrUnknownFormat)
}
