package label_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/defectlevels/label"
)

func TestMplName(t *testing.T) {
	assert.Equal(t, `$V_{{\rm O}1}$`, label.MplName("Va_O1"))
	assert.Equal(t, `${\rm Mg}_{i1}$`, label.MplName("Mg_i1"))
	assert.Equal(t, `${\rm Mg}_{{\rm O}1}$`, label.MplName("Mg_O1"))
	assert.Equal(t, "complex", label.MplName("complex"))
}

func TestPlotlyName(t *testing.T) {
	assert.Equal(t, "<i>V</i><sub>O1</sub>", label.PlotlyName("Va_O1"))
	assert.Equal(t, "Mg<sub>i1</sub>", label.PlotlyName("Mg_i1"))
	assert.Equal(t, "Mg<sub>O1</sub>", label.PlotlyName("Mg_O1"))
	assert.Equal(t, "Va_", label.PlotlyName("Va_"))
}

func TestSanitize(t *testing.T) {
	names := []string{"Va_Mg1", "Va_O1", "Va_O2", "Mg_i1", "O_i1"}
	assert.Equal(t, []string{
		`$V_{{\rm Mg}}$`,
		`$V_{{\rm O}1}$`,
		`$V_{{\rm O}2}$`,
		`${\rm Mg}_{i}$`,
		`${\rm O}_{i}$`,
	}, label.Sanitize(names, label.StyleMpl))

	assert.Equal(t, []string{`${\rm Mg}_{i1}$`, `${\rm Mg}_{i2}$`},
		label.Sanitize([]string{"Mg_i1", "Mg_i2"}, label.StyleMpl))
	assert.Equal(t, []string{"Mg<sub>i1</sub>", "Mg<sub>i2</sub>"},
		label.Sanitize([]string{"Mg_i1", "Mg_i2"}, label.StylePlotly))
	assert.Equal(t, []string{"Va_Mg", "Va_O1", "Va_O2"},
		label.Sanitize([]string{"Va_Mg1", "Va_O1", "Va_O2"}, label.StyleNone))
}

func TestSanitizeMap(t *testing.T) {
	out, err := label.SanitizeMap(map[string]int{"Va_O1": 1, "Mg_i1": 2, "Mg_i2": 3}, label.StylePlotly)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"<i>V</i><sub>O</sub>": 1,
		"Mg<sub>i1</sub>":      2,
		"Mg<sub>i2</sub>":      3,
	}, out)
}

func TestParseStyle(t *testing.T) {
	for in, want := range map[string]label.Style{
		"":           label.StyleNone,
		"none":       label.StyleNone,
		"MPL":        label.StyleMpl,
		"matplotlib": label.StyleMpl,
		"plotly":     label.StylePlotly,
	} {
		got, err := label.ParseStyle(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := label.ParseStyle("latex")
	assert.Error(t, err)
	assert.Equal(t, "plotly", label.StylePlotly.String())
}
