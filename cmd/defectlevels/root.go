// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/defectlevels/config"
	"github.com/katalvlaran/defectlevels/report"
	"github.com/katalvlaran/defectlevels/summary"
)

// app is the state shared by all subcommands, filled in PersistentPreRunE.
type app struct {
	stdout, stderr io.Writer

	configPath string
	formatFlag string
	colorFlag  string
	condition  string

	cfg    config.Config
	logger *slog.Logger
	format report.Format
	color  bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:          "defectlevels",
		Short:        "Charge-transition levels of point defects",
		Long:         `defectlevels builds the lower envelope of defect formation energies over the Fermi level and reports transition and pinning levels.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "TOML configuration file")
	pf.StringVar(&a.formatFlag, "format", string(report.FormatText), "output format (text|yaml|msgpack)")
	pf.StringVar(&a.colorFlag, "color", "auto", "colorize text output (auto|on|off)")
	pf.StringVar(&a.condition, "condition", "", "chemical potential condition (overrides diagram.condition)")

	root.AddCommand(
		newDiagramCmd(a),
		newEnvelopeCmd(a),
		newTransitionsCmd(a),
		newPinningCmd(a),
		newMergeCmd(a),
		newPlotCmd(a),
	)

	return root
}

func (a *app) setup() error {
	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.condition != "" {
		a.cfg.Diagram.Condition = a.condition
	}
	a.logger = a.cfg.NewLogger(a.stderr)

	f, err := report.ParseFormat(a.formatFlag)
	if err != nil {
		return err
	}
	a.format = f

	switch a.colorFlag {
	case "on":
		a.color = true
	case "off":
		a.color = false
	case "auto":
		a.color = !color.NoColor && a.stdout == os.Stdout
	default:
		return fmt.Errorf("unknown --color value %q (auto|on|off)", a.colorFlag)
	}
	a.logger.Debug("cli.configured", "config", a.configPath, "format", a.format, "condition", a.cfg.Diagram.Condition)

	return nil
}

// loadSummary reads a YAML summary, or a msgpack cache when the extension is .mp or .msgpack.
func (a *app) loadSummary(path string) (*summary.Summary, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp", ".msgpack":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return summary.Decode(f)
	default:
		return summary.Load(path)
	}
}

// chargeEnergies resolves the condition and applies the configured filters.
func (a *app) chargeEnergies(s *summary.Summary) (summary.ChargeEnergies, error) {
	cond := a.cfg.Diagram.Condition
	if cond == "" {
		conds := s.Conditions()
		if len(conds) != 1 {
			return summary.ChargeEnergies{}, fmt.Errorf("--condition is required, summary has %v", conds)
		}
		cond = conds[0]
	}
	ce, err := s.ChargeEnergies(cond, a.cfg.Diagram.AllowShallow, a.cfg.Diagram.WithCorrection, a.cfg.Style())
	if err != nil {
		return summary.ChargeEnergies{}, err
	}
	ce.EMin, ce.EMax = a.cfg.Domain.Resolve(ce.EMin, ce.EMax)
	if ce.EMin < s.SupercellVBM {
		a.logger.Info("cli.domain_below_supercell_vbm", "e_min", ce.EMin, "supercell_vbm", s.SupercellVBM)
	}

	return ce, nil
}

func (a *app) reportOptions() []report.Option {
	return []report.Option{
		report.WithMargin(a.cfg.Diagram.Margin),
		report.WithColor(a.color),
	}
}
