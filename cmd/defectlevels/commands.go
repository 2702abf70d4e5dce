// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/defectlevels/energyline"
	"github.com/katalvlaran/defectlevels/report"
	"github.com/katalvlaran/defectlevels/summary"
	"github.com/katalvlaran/defectlevels/transition"
)

func newDiagramCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diagram summary.yaml",
		Short: "Envelope, transition and pinning levels of every defect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSummary(args[0])
			if err != nil {
				return err
			}
			ce, err := a.chargeEnergies(s)
			if err != nil {
				return err
			}
			d, err := ce.Diagram(cmd.Context(), a.cfg.DiagramOptions(a.logger)...)
			if err != nil {
				return err
			}

			return report.WriteDiagram(a.stdout, a.format, d, a.reportOptions()...)
		},
	}
}

func newPlotCmd(a *app) *cobra.Command {
	var out, title string
	cmd := &cobra.Command{
		Use:   "plot summary.yaml -o diagram.png",
		Short: "Draw the charge-transition diagram as PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imgFormat, err := report.ParseImageFormat(strings.TrimPrefix(filepath.Ext(out), "."))
			if err != nil {
				return err
			}
			s, err := a.loadSummary(args[0])
			if err != nil {
				return err
			}
			ce, err := a.chargeEnergies(s)
			if err != nil {
				return err
			}
			d, err := ce.Diagram(cmd.Context(), a.cfg.DiagramOptions(a.logger)...)
			if err != nil {
				return err
			}
			if title == "" {
				title = s.Title
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.PlotDiagram(f, imgFormat, d, title, a.cfg.Diagram.Margin); err != nil {
				f.Close()
				return err
			}
			a.logger.Info("cli.plotted", "path", out, "defects", len(d.Entries), "excluded", len(d.Failures))

			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "image file (.png or .svg)")
	cmd.Flags().StringVar(&title, "title", "", "plot title (defaults to the summary title)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// singleDefect is the shared body of the per-defect commands.
func singleDefect(a *app, use, short string, run func(d energyline.DefectEnergy, efMin, efMax float64) error) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   use + " summary.yaml --defect NAME",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSummary(args[0])
			if err != nil {
				return err
			}
			ce, err := a.chargeEnergies(s)
			if err != nil {
				return err
			}
			for _, d := range ce.Defects {
				if d.Name() == name {
					return run(d, ce.EMin, ce.EMax)
				}
			}
			for _, f := range ce.Failed {
				if f.Name == name {
					return f
				}
			}

			return fmt.Errorf("defect %q not found or without charge states", name)
		},
	}
	cmd.Flags().StringVar(&name, "defect", "", "defect name as shown by the diagram command")
	_ = cmd.MarkFlagRequired("defect")

	return cmd
}

func newEnvelopeCmd(a *app) *cobra.Command {
	return singleDefect(a, "envelope", "Lower-envelope vertices of one defect",
		func(d energyline.DefectEnergy, efMin, efMax float64) error {
			base := a.cfg.Domain.BaseShift
			cp, err := transition.CrossPoints(d.Lines(), efMin, efMax, base, a.cfg.EnvelopeOptions()...)
			if err != nil {
				return err
			}
			return report.WriteCrossPoints(a.stdout, a.format, cp)
		})
}

func newTransitionsCmd(a *app) *cobra.Command {
	return singleDefect(a, "transitions", "Transition levels of every charge pair of one defect",
		func(d energyline.DefectEnergy, _, _ float64) error {
			return report.WriteTransitions(a.stdout, a.format, transition.TransitionLevels(d.Lines(), a.cfg.Domain.BaseShift))
		})
}

func newPinningCmd(a *app) *cobra.Command {
	return singleDefect(a, "pinning", "Fermi-level pinning bounds of one defect",
		func(d energyline.DefectEnergy, efMin, efMax float64) error {
			base := a.cfg.Domain.BaseShift
			p := transition.Pinning(d.Lines(),
				transition.WithBaseShift(base),
				transition.WithDomain(efMin-base, efMax-base))
			return report.WritePinning(a.stdout, a.format, p)
		})
}

func newMergeCmd(a *app) *cobra.Command {
	var (
		out, cache, chemPots, title string
		edges                       summary.BandEdges
		show                        bool
	)
	cmd := &cobra.Command{
		Use:   "merge info.yaml... -o summary.yaml --chem-pots chem.yaml",
		Short: "Merge per-charge energy info files into a summary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			rel, err := loadChemPots(chemPots)
			if err != nil {
				return err
			}
			infos := make([]summary.Info, 0, len(args))
			for _, p := range args {
				info, err := summary.LoadInfo(p)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}
			s, err := summary.FromInfos(title, infos, rel, edges)
			if err != nil {
				return err
			}
			a.logger.Info("cli.merged", "defects", len(s.Defects), "records", len(infos))

			if out != "" {
				if err := s.Save(out); err != nil {
					return err
				}
			}
			if cache != "" {
				if err := writeCache(cache, s); err != nil {
					return err
				}
			}
			if !show {
				return nil
			}
			ce, err := a.chargeEnergies(s)
			if err != nil {
				return err
			}

			return report.WriteDefects(a.stdout, ce.Defects, ce.Skipped, ce.Failed, a.reportOptions()...)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "output", "o", "", "summary YAML to write")
	f.StringVar(&cache, "cache", "", "msgpack cache to write")
	f.StringVar(&chemPots, "chem-pots", "", "YAML map of condition -> element -> relative chemical potential")
	f.StringVar(&title, "title", "", "summary title")
	f.Float64Var(&edges.CBM, "cbm", 0, "conduction band minimum relative to the VBM")
	f.Float64Var(&edges.SupercellVBM, "supercell-vbm", 0, "supercell VBM relative to the VBM")
	f.Float64Var(&edges.SupercellCBM, "supercell-cbm", 0, "supercell CBM relative to the VBM")
	f.BoolVar(&show, "show", false, "print the merged line sets for the selected condition")
	_ = cmd.MarkFlagRequired("chem-pots")

	return cmd
}

func loadChemPots(path string) (map[string]map[string]float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rel map[string]map[string]float64
	if err := yaml.Unmarshal(b, &rel); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rel) == 0 {
		return nil, errors.New("no chemical potential condition in " + path)
	}

	return rel, nil
}

func writeCache(path string, s *summary.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
