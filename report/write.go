// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/defectlevels/diagram"
	"github.com/katalvlaran/defectlevels/energyline"
	"github.com/katalvlaran/defectlevels/envelope"
	"github.com/katalvlaran/defectlevels/transition"
)

// ErrUnknownFormat indicates an output format other than text, yaml or msgpack.
var ErrUnknownFormat = errors.New("report: unknown format")

// Format is an output encoding.
type Format string

const (
	FormatText    Format = "text"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat validates s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatYAML, FormatMsgpack:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Options configures the writers.
type Options struct {
	margin float64
	color  bool
}

// Option is a functional option for the writers.
type Option func(*Options)

// WithMargin sets the padding of the reported energy range; negative omits it.
func WithMargin(m float64) Option { return func(o *Options) { o.margin = m } }

// WithColor enables ANSI colors in text output.
func WithColor(on bool) Option { return func(o *Options) { o.color = on } }

func gatherOptions(opts []Option) Options {
	cfg := Options{margin: -1}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WriteDiagram renders d to w in format f.
func WriteDiagram(w io.Writer, f Format, d *diagram.Diagram, opts ...Option) error {
	cfg := gatherOptions(opts)
	switch f {
	case FormatText:
		return writeDiagramText(w, d, cfg)
	case FormatYAML:
		return writeYAML(w, NewDoc(d, cfg.margin))
	case FormatMsgpack:
		return writeMsgpack(w, NewDoc(d, cfg.margin))
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteCrossPoints renders a single envelope.
func WriteCrossPoints(w io.Writer, f Format, cp envelope.CrossPointSet) error {
	switch f {
	case FormatText:
		_, err := fmt.Fprintf(w, "%s\ncharges: %v\n", cp, cp.Charges())
		return err
	case FormatYAML:
		return writeYAML(w, PointDocs(cp))
	case FormatMsgpack:
		return writeMsgpack(w, PointDocs(cp))
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteTransitions renders the transition levels of one defect.
func WriteTransitions(w io.Writer, f Format, l transition.Levels) error {
	switch f {
	case FormatText:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		writeLevels(tw, l)
		return tw.Flush()
	case FormatYAML:
		return writeYAML(w, TransitionDocs(l))
	case FormatMsgpack:
		return writeMsgpack(w, TransitionDocs(l))
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WritePinning renders the pinning bounds of one defect.
func WritePinning(w io.Writer, f Format, p transition.PinningLevel) error {
	switch f {
	case FormatText:
		_, err := fmt.Fprintf(w, "lower: %s\nupper: %s\n", bound(p.Lower), bound(p.Upper))
		return err
	case FormatYAML:
		return writeYAML(w, NewPinningDoc(p))
	case FormatMsgpack:
		return writeMsgpack(w, NewPinningDoc(p))
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteDefects renders merged line sets, one DefectEnergy table per defect,
// followed by the skipped and failed names.
func WriteDefects(w io.Writer, defects []energyline.DefectEnergy, skipped []string, failed []energyline.Failure, opts ...Option) error {
	cfg := gatherOptions(opts)
	for _, d := range defects {
		if _, err := fmt.Fprintf(w, "%s\n", d); err != nil {
			return err
		}
	}

	return writeProblems(w, skipped, failed, cfg)
}

func writeDiagramText(w io.Writer, d *diagram.Diagram, cfg Options) error {
	bold := newColor(cfg, color.Bold)
	if _, err := fmt.Fprintf(w, "Fermi level domain: [%.4f, %.4f]\n", d.EFMin, d.EFMax); err != nil {
		return err
	}
	if d.BaseShift != 0 {
		if _, err := fmt.Fprintf(w, "Fermi level reference: %.4f\n", d.BaseShift); err != nil {
			return err
		}
	}
	if cfg.margin >= 0 {
		if lo, hi, ok := d.EnergyRange(cfg.margin); ok {
			if _, err := fmt.Fprintf(w, "Energy range: [%.4f, %.4f]\n", lo, hi); err != nil {
				return err
			}
		}
	}

	for _, e := range d.Entries {
		if _, err := fmt.Fprintf(w, "\n%s\n%s\n", bold.Sprintf("== %s", e.Name), e.Points); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(tw, "charges:\t%v\t\n", e.Points.Charges())
		writeLevels(tw, e.Transitions)
		fmt.Fprintf(tw, "pinning lower:\t%s\t\n", bound(e.Pinning.Lower))
		fmt.Fprintf(tw, "pinning upper:\t%s\t\n", bound(e.Pinning.Upper))
		if len(e.Shallow) > 0 {
			fmt.Fprintf(tw, "shallow:\t%v\t\n", e.Shallow)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return writeProblems(w, d.Skipped, d.Failures, cfg)
}

func writeLevels(tw *tabwriter.Writer, l transition.Levels) {
	for _, p := range l.Pairs() {
		fmt.Fprintf(tw, "%+d/%+d\t%.4f\t\n", p.Q1, p.Q2, l[p])
	}
}

func writeProblems(w io.Writer, skipped []string, failed []energyline.Failure, cfg Options) error {
	if len(skipped) > 0 {
		warn := newColor(cfg, color.FgYellow)
		if _, err := fmt.Fprintf(w, "\n%s %s\n", warn.Sprint("Skipped (no charge state):"), strings.Join(skipped, ", ")); err != nil {
			return err
		}
	}
	if len(failed) == 0 {
		return nil
	}
	red := newColor(cfg, color.FgRed)
	if _, err := fmt.Fprintf(w, "\n%s\n", red.Sprint("Excluded:")); err != nil {
		return err
	}
	for _, f := range failed {
		if _, err := fmt.Fprintf(w, "  %s: %v\n", red.Sprint(f.Name), f.Err); err != nil {
			return err
		}
	}

	return nil
}

func bound(b transition.PinningBound) string {
	if !b.Found {
		return "none"
	}

	return fmt.Sprintf("%.4f (q=%+d)", b.Level, b.Charge)
}

func newColor(cfg Options, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if cfg.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("report: yaml: %w", err)
	}

	return enc.Close()
}

func writeMsgpack(w io.Writer, v any) error {
	if err := msgpack.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("report: msgpack: %w", err)
	}

	return nil
}
