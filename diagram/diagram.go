// SPDX-License-Identifier: MIT

package diagram

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/defectlevels/energyline"
	"github.com/katalvlaran/defectlevels/envelope"
	"github.com/katalvlaran/defectlevels/transition"
)

// Input is the raw per-defect payload supplied by an external collaborator.
type Input struct {
	Name        string
	Charges     []int
	Energies    []float64 // raw, uncorrected
	Corrections []float64
	Shallow     []bool // optional pass-through flags
}

// Entry is the result for one defect.
type Entry struct {
	Name        string
	Points      envelope.CrossPointSet
	Transitions transition.Levels
	Pinning     transition.PinningLevel
	Shallow     []int // charges flagged shallow upstream, input order
}

// StableCharges returns the charges occupying a segment of the envelope.
func (e Entry) StableCharges() transition.ChargeSet {
	return transition.NewChargeSet(e.Points.Charges()...)
}

// Diagram is the aggregate over all defects sharing one domain. Every Fermi
// level it holds (EFMin, EFMax, vertices, transitions and pinning) is relative
// to BaseShift.
type Diagram struct {
	EFMin, EFMax float64
	BaseShift    float64
	Entries      []Entry              // successful defects, sorted by name
	Failures     []energyline.Failure // excluded defects, sorted by name
	Skipped      []string             // defects without any charge state (no data), sorted
}

// Entry returns the entry of the named defect.
func (d *Diagram) Entry(name string) (Entry, bool) {
	i := sort.Search(len(d.Entries), func(i int) bool { return d.Entries[i].Name >= name })
	if i < len(d.Entries) && d.Entries[i].Name == name {
		return d.Entries[i], true
	}

	return Entry{}, false
}

// FailedNames lists the excluded defects.
func (d *Diagram) FailedNames() []string {
	out := make([]string, len(d.Failures))
	for i, f := range d.Failures {
		out[i] = f.Name
	}

	return out
}

// EnergyRange returns [min - margin, max + margin] over the envelope vertices
// of every entry. ok is false when the diagram has no entries.
func (d *Diagram) EnergyRange(margin float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, e := range d.Entries {
		elo, ehi, eok := e.Points.EnergyBounds()
		if !eok {
			continue
		}
		lo, hi, ok = math.Min(lo, elo), math.Max(hi, ehi), true
	}
	if !ok {
		return 0, 0, false
	}

	return lo - margin, hi + margin, true
}

// ShallowCharges returns, per defect name, the charges flagged for follow-up
// inspection. Defects without flagged charges are omitted.
func (d *Diagram) ShallowCharges() map[string][]int {
	out := make(map[string][]int)
	for _, e := range d.Entries {
		if len(e.Shallow) > 0 {
			out[e.Name] = append([]int(nil), e.Shallow...)
		}
	}

	return out
}

// Aggregate builds a Diagram from raw inputs. Malformed inputs are excluded
// and reported; see AggregateDefects for the validated variant.
func Aggregate(ctx context.Context, inputs []Input, efMin, efMax float64, opts ...Option) (*Diagram, error) {
	units := make([]unit, len(inputs))
	for i, in := range inputs {
		in := in // per-iteration copy; go.mod targets go 1.21 (pre-1.22 loop semantics)
		units[i] = unit{name: in.Name, build: func() (energyline.DefectEnergy, error) {
			if len(in.Charges) == 0 && len(in.Energies) == 0 && len(in.Corrections) == 0 {
				return energyline.DefectEnergy{}, energyline.ErrNoStableCharge
			}
			d, err := energyline.New(in.Name, in.Charges, in.Energies, in.Corrections)
			if err != nil || in.Shallow == nil {
				return d, err
			}

			return d.WithShallow(in.Shallow)
		}}
	}

	return run(ctx, units, efMin, efMax, gatherOptions(opts))
}

// AggregateDefects builds a Diagram from already validated defects.
func AggregateDefects(ctx context.Context, defects []energyline.DefectEnergy, efMin, efMax float64, opts ...Option) (*Diagram, error) {
	units := make([]unit, len(defects))
	for i, d := range defects {
		d := d // per-iteration copy; go.mod targets go 1.21 (pre-1.22 loop semantics)
		units[i] = unit{name: d.Name(), build: func() (energyline.DefectEnergy, error) { return d, nil }}
	}

	return run(ctx, units, efMin, efMax, gatherOptions(opts))
}

// unit is one defect's isolated piece of work.
type unit struct {
	name  string
	build func() (energyline.DefectEnergy, error)
}

// outcome is the result slot written by exactly one goroutine.
type outcome struct {
	entry Entry
	err   error
}

func run(ctx context.Context, units []unit, efMin, efMax float64, cfg Options) (*Diagram, error) {
	// 1) Domain errors are fatal: validate once, in both references, before
	//    spawning work.
	if err := envelope.ValidateDomain(efMin, efMax); err != nil {
		return nil, fmt.Errorf("diagram: %w", err)
	}
	if err := envelope.ValidateDomain(efMin-cfg.baseShift, efMax-cfg.baseShift); err != nil {
		return nil, fmt.Errorf("diagram: base shift %g: %w", cfg.baseShift, err)
	}

	// 2) Duplicate names cannot be merged by name; later duplicates fail.
	dup := make(map[int]bool)
	seen := make(map[string]struct{}, len(units))
	for i, u := range units {
		if _, ok := seen[u.name]; ok {
			dup[i] = true
			continue
		}
		seen[u.name] = struct{}{}
	}

	// 3) Solve every unit in isolation.
	results := make([]outcome, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(cfg.workers, len(units))))
	for i := range units {
		i := i // per-iteration copy; go.mod targets go 1.21 (pre-1.22 loop semantics)
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if dup[i] {
				results[i].err = fmt.Errorf("%w: duplicate defect name %q", energyline.ErrMalformedInput, units[i].name)
				return nil
			}
			entry, err := solveUnit(units[i], efMin, efMax, cfg)
			if errors.Is(err, envelope.ErrEmptyDomain) {
				return err
			}
			results[i] = outcome{entry: entry, err: err}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 4) Merge deterministically by name.
	d := &Diagram{EFMin: efMin - cfg.baseShift, EFMax: efMax - cfg.baseShift, BaseShift: cfg.baseShift}
	for i, r := range results {
		if errors.Is(r.err, energyline.ErrNoStableCharge) {
			cfg.logger.Info("diagram.defect_skipped", "defect", units[i].name)
			d.Skipped = append(d.Skipped, units[i].name)
			continue
		}
		if r.err != nil {
			cfg.logger.Warn("diagram.defect_excluded", "defect", units[i].name, "err", r.err)
			d.Failures = append(d.Failures, energyline.Failure{Name: units[i].name, Err: r.err})
			continue
		}
		cfg.logger.Debug("diagram.defect_solved", "defect", r.entry.Name,
			"vertices", r.entry.Points.Len(), "charges", r.entry.Points.Charges())
		d.Entries = append(d.Entries, r.entry)
	}
	sort.SliceStable(d.Entries, func(i, j int) bool { return d.Entries[i].Name < d.Entries[j].Name })
	sort.SliceStable(d.Failures, func(i, j int) bool { return d.Failures[i].Name < d.Failures[j].Name })
	sort.Strings(d.Skipped)

	return d, nil
}

func solveUnit(u unit, efMin, efMax float64, cfg Options) (Entry, error) {
	d, err := u.build()
	if err != nil {
		return Entry{}, err
	}
	lines := d.Lines()
	cp, err := transition.CrossPoints(lines, efMin, efMax, cfg.baseShift, cfg.envelope...)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Name:        d.Name(),
		Points:      cp,
		Transitions: transition.TransitionLevels(lines, cfg.baseShift),
		Pinning: transition.Pinning(lines,
			transition.WithBaseShift(cfg.baseShift),
			transition.WithDomain(efMin-cfg.baseShift, efMax-cfg.baseShift)),
		Shallow: d.ShallowCharges(),
	}, nil
}
