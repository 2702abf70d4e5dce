package report_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/defectlevels/diagram"
	"github.com/katalvlaran/defectlevels/energyline"
	"github.com/katalvlaran/defectlevels/envelope"
	"github.com/katalvlaran/defectlevels/report"
	"github.com/katalvlaran/defectlevels/transition"
)

func sampleDiagram(t *testing.T) *diagram.Diagram {
	t.Helper()
	in := []diagram.Input{
		{Name: "Va_O1", Charges: []int{0, 1, 2}, Energies: []float64{4, 2, -4}, Corrections: []float64{2, 1, 0}},
		{Name: "Broken", Charges: []int{0, 0}, Energies: []float64{1, 2}, Corrections: []float64{0, 0}},
		{Name: "Empty"},
	}
	d, err := diagram.Aggregate(context.Background(), in, 1, 6)
	require.NoError(t, err)

	return d
}

func TestParseFormat(t *testing.T) {
	f, err := report.ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, report.FormatYAML, f)
	f, err = report.ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, report.FormatYAML, f)
	_, err = report.ParseFormat("csv")
	assert.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestNewDoc(t *testing.T) {
	doc := report.NewDoc(sampleDiagram(t), 0.5)
	require.Len(t, doc.Defects, 1)
	e := doc.Defects[0]
	assert.Equal(t, "Va_O1", e.Name)
	assert.Equal(t, []report.PointDoc{
		{EF: 1, Energy: -2, Kind: "boundary"},
		{EF: 5, Energy: 6, Kind: "interior"},
		{EF: 6, Energy: 6, Kind: "boundary"},
	}, e.Points)
	assert.Equal(t, []int{2, 0}, e.Charges)
	assert.Equal(t, []report.TransitionDoc{
		{Q1: 0, Q2: 1, Level: 3}, {Q1: 0, Q2: 2, Level: 5}, {Q1: 1, Q2: 2, Level: 7},
	}, e.Transitions)
	assert.Equal(t, &report.BoundDoc{Level: 2, Charge: 2}, e.Pinning.Lower)
	assert.Nil(t, e.Pinning.Upper)
	assert.Equal(t, &report.RangeDoc{Min: -2.5, Max: 6.5}, doc.Energy)
	require.Len(t, doc.Excluded, 1)
	assert.Equal(t, "Broken", doc.Excluded[0].Name)
	assert.Equal(t, []string{"Empty"}, doc.Skipped)

	assert.Nil(t, report.NewDoc(sampleDiagram(t), -1).Energy)
}

func TestNewDoc_BaseShift(t *testing.T) {
	in := []diagram.Input{
		{Name: "Va_O1", Charges: []int{0, 1, 2}, Energies: []float64{4, 2, -4}, Corrections: []float64{2, 1, 0}},
	}
	d, err := diagram.Aggregate(context.Background(), in, 1, 6, diagram.WithBaseShift(1))
	require.NoError(t, err)

	doc := report.NewDoc(d, 0)
	assert.Equal(t, 0.0, doc.EFMin)
	assert.Equal(t, 5.0, doc.EFMax)
	assert.Equal(t, 1.0, doc.BaseShift)
	require.Len(t, doc.Defects, 1)
	assert.Equal(t, report.PointDoc{EF: 4, Energy: 6, Kind: "interior"}, doc.Defects[0].Points[1])
	assert.Contains(t, doc.Defects[0].Transitions, report.TransitionDoc{Q1: 0, Q2: 2, Level: 4})

	var buf bytes.Buffer
	require.NoError(t, report.WriteDiagram(&buf, report.FormatText, d))
	assert.Contains(t, buf.String(), "Fermi level domain: [0.0000, 5.0000]")
	assert.Contains(t, buf.String(), "Fermi level reference: 1.0000")
}

func TestWriteDiagram_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteDiagram(&buf, report.FormatText, sampleDiagram(t), report.WithMargin(0.5)))
	out := buf.String()

	assert.Contains(t, out, "Fermi level domain: [1.0000, 6.0000]")
	assert.Contains(t, out, "Energy range: [-2.5000, 6.5000]")
	assert.Contains(t, out, "== Va_O1")
	assert.Contains(t, out, "      5.0000       6.0000")
	assert.Contains(t, out, "+0/+2")
	assert.Contains(t, out, "2.0000 (q=+2)")
	assert.Contains(t, out, "Skipped (no charge state): Empty")
	assert.Contains(t, out, "Broken: energyline: malformed input")
	assert.NotContains(t, out, "\x1b[", "colors are off unless requested")
}

func TestWriteDiagram_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteDiagram(&buf, report.FormatText, sampleDiagram(t), report.WithColor(true)))
	assert.Contains(t, buf.String(), "\x1b[31m")
}

func TestWriteDiagram_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteDiagram(&buf, report.FormatYAML, sampleDiagram(t),
		report.WithMargin(0)))

	var doc report.Doc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, report.NewDoc(sampleDiagram(t), 0), doc)
	assert.Contains(t, buf.String(), "kind: interior")
}

func TestWriteDiagram_Msgpack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteDiagram(&buf, report.FormatMsgpack, sampleDiagram(t)))

	var doc report.Doc
	require.NoError(t, msgpack.NewDecoder(&buf).Decode(&doc))
	require.Len(t, doc.Defects, 1)
	assert.Equal(t, []int{2, 0}, doc.Defects[0].Charges)
	assert.Nil(t, doc.Energy)
}

func TestWriteDiagram_UnknownFormat(t *testing.T) {
	err := report.WriteDiagram(&bytes.Buffer{}, report.Format("csv"), sampleDiagram(t))
	assert.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestWriteSingle(t *testing.T) {
	va := energyline.MustNew("Va_O1", []int{0, 1, 2}, []float64{4, 2, -4}, []float64{2, 1, 0})
	cp, err := envelope.Solve(va.Lines(), 1, 6)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCrossPoints(&buf, report.FormatText, cp))
	assert.Equal(t, "      1.0000      -2.0000\n      5.0000       6.0000\n      6.0000       6.0000\ncharges: [2 0]\n", buf.String())

	buf.Reset()
	require.NoError(t, report.WriteTransitions(&buf, report.FormatText, transition.TransitionLevels(va.Lines(), 0)))
	assert.Contains(t, buf.String(), "+1/+2  7.0000")

	buf.Reset()
	require.NoError(t, report.WritePinning(&buf, report.FormatText, transition.Pinning(va.Lines())))
	assert.Equal(t, "lower: 2.0000 (q=+2)\nupper: none\n", buf.String())

	buf.Reset()
	require.NoError(t, report.WritePinning(&buf, report.FormatYAML, transition.Pinning(va.Lines())))
	assert.Equal(t, "lower:\n  level: 2\n  charge: 2\n", buf.String())
}

func TestWriteDefects(t *testing.T) {
	va := energyline.MustNew("Va_O1", []int{0}, []float64{4}, []float64{2})
	var buf bytes.Buffer
	require.NoError(t, report.WriteDefects(&buf, []energyline.DefectEnergy{va}, []string{"Mg_i1"},
		[]energyline.Failure{{Name: "Zn_Mg1", Err: energyline.ErrMalformedInput}}))
	assert.Equal(t, "     Va_O1    0       4.0000       2.0000\n"+
		"\nSkipped (no charge state): Mg_i1\n"+
		"\nExcluded:\n  Zn_Mg1: energyline: malformed input\n", buf.String())
}
