package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/defectlevels/diagram"
	"github.com/katalvlaran/defectlevels/report"
)

func TestPlotDiagram(t *testing.T) {
	d := sampleDiagram(t)

	var png bytes.Buffer
	require.NoError(t, report.PlotDiagram(&png, report.ImagePNG, d, "MgO", 0.5))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))

	var svg bytes.Buffer
	require.NoError(t, report.PlotDiagram(&svg, report.ImageSVG, d, "MgO", 0.5))
	assert.Contains(t, svg.String(), "<svg")
}

func TestPlotDiagram_Errors(t *testing.T) {
	err := report.PlotDiagram(&bytes.Buffer{}, report.ImagePNG, &diagram.Diagram{EFMin: 0, EFMax: 1}, "", 0)
	assert.ErrorIs(t, err, report.ErrNothingToPlot)

	err = report.PlotDiagram(&bytes.Buffer{}, report.ImageFormat("gif"), sampleDiagram(t), "", 0)
	assert.ErrorIs(t, err, report.ErrUnknownFormat)

	f, err := report.ParseImageFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, report.ImageSVG, f)
	_, err = report.ParseImageFormat("bmp")
	assert.ErrorIs(t, err, report.ErrUnknownFormat)
}
