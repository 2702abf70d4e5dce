// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/katalvlaran/defectlevels/diagram"
)

// ErrNothingToPlot indicates a diagram without entries.
var ErrNothingToPlot = errors.New("report: diagram has no entries to plot")

// ImageFormat selects the plot encoding.
type ImageFormat string

const (
	ImagePNG ImageFormat = "png"
	ImageSVG ImageFormat = "svg"
)

// ParseImageFormat validates s.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch f := ImageFormat(strings.ToLower(s)); f {
	case ImagePNG, ImageSVG:
		return f, nil
	}

	return "", fmt.Errorf("%w: image %q", ErrUnknownFormat, s)
}

// Plot size in pixels.
const (
	plotWidth  = 800
	plotHeight = 600
)

var palette = []drawing.Color{
	chart.ColorBlue, chart.ColorRed, chart.ColorGreen, chart.ColorOrange,
	chart.ColorCyan, chart.ColorAlternateGray, chart.ColorYellow, chart.ColorBlack,
}

// transitionStyle draws envelope vertices only.
func transitionStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: chart.ColorTransparent,
		DotWidth:    4,
		DotColor:    col,
	}
}

// PlotDiagram draws the envelope of every entry as a polyline over the Fermi
// level, marks the interior transition points and clips the energy axis to
// d.EnergyRange(margin).
func PlotDiagram(w io.Writer, f ImageFormat, d *diagram.Diagram, title string, margin float64) error {
	if len(d.Entries) == 0 {
		return ErrNothingToPlot
	}
	lo, hi, _ := d.EnergyRange(margin)

	var series []chart.Series
	for i, e := range d.Entries {
		col := palette[i%len(palette)]
		all := e.Points.TAllSortedPoints()
		series = append(series, chart.ContinuousSeries{
			Name:    e.Name,
			XValues: all[0],
			YValues: all[1],
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 2},
		})
		if inner := e.Points.TInnerCrossPoints(); len(inner[0]) > 0 {
			// single-point series are padded by repeating the point
			xs, ys := inner[0], inner[1]
			if len(xs) == 1 {
				xs, ys = append(xs, xs[0]), append(ys, ys[0])
			}
			series = append(series, chart.ContinuousSeries{XValues: xs, YValues: ys, Style: transitionStyle(col)})
		}
	}

	ch := chart.Chart{
		Title:      title,
		Width:      plotWidth,
		Height:     plotHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Fermi level (eV)", Range: &chart.ContinuousRange{Min: d.EFMin, Max: d.EFMax}},
		YAxis:      chart.YAxis{Name: "Formation energy (eV)", Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var rp chart.RendererProvider
	switch f {
	case ImagePNG:
		rp = chart.PNG
	case ImageSVG:
		rp = chart.SVG
	default:
		return fmt.Errorf("%w: image %q", ErrUnknownFormat, f)
	}
	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("report: plot: %w", err)
	}

	return nil
}
