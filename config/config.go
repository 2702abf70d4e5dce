// SPDX-License-Identifier: MIT

// Package config loads the TOML run configuration of the defectlevels CLI.
//
// Every key is optional; Default documents the fallback values. Unknown keys
// are rejected so that typos do not silently fall back to defaults.
//
//	[domain]
//	e_min = 0.0            # overrides the summary's e_min
//	e_max = 5.0            # overrides the summary's e_max / cbm
//	base_shift = 0.0
//
//	[tolerance]
//	domain_epsilon = 1e-3
//	charge_round_tol = 1e-6
//	coordinate_tol = 1e-8
//
//	[diagram]
//	condition = "A"
//	margin = 0.5
//	name_style = "none"    # none | mpl | plotly
//	allow_shallow = true
//	with_correction = true
//	workers = 0            # 0 = GOMAXPROCS
//
//	[log]
//	level = "info"         # debug | info | warn | error
//	format = "text"        # text | json
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/defectlevels/diagram"
	"github.com/katalvlaran/defectlevels/envelope"
	"github.com/katalvlaran/defectlevels/label"
)

// ErrInvalid indicates a configuration value outside its allowed range.
var ErrInvalid = errors.New("config: invalid value")

// Defaults.
const (
	DefaultMargin    = 0.5
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the full run configuration.
type Config struct {
	Domain    Domain    `toml:"domain"`
	Tolerance Tolerance `toml:"tolerance"`
	Diagram   Diagram   `toml:"diagram"`
	Log       Log       `toml:"log"`
}

// Domain optionally overrides the Fermi-level window stored in a summary.
type Domain struct {
	EMin      float64 `toml:"e_min"`
	EMax      float64 `toml:"e_max"`
	BaseShift float64 `toml:"base_shift"`

	HasEMin bool `toml:"-"`
	HasEMax bool `toml:"-"`
}

// Resolve applies the configured overrides to the window [efMin, efMax].
func (d Domain) Resolve(efMin, efMax float64) (float64, float64) {
	if d.HasEMin {
		efMin = d.EMin
	}
	if d.HasEMax {
		efMax = d.EMax
	}

	return efMin, efMax
}

// Tolerance holds the numeric policy of the envelope solver.
type Tolerance struct {
	DomainEpsilon  float64 `toml:"domain_epsilon"`
	ChargeRoundTol float64 `toml:"charge_round_tol"`
	CoordinateTol  float64 `toml:"coordinate_tol"`
}

// Diagram holds the aggregation and presentation settings.
type Diagram struct {
	Condition      string  `toml:"condition"`
	Margin         float64 `toml:"margin"`
	NameStyle      string  `toml:"name_style"`
	AllowShallow   bool    `toml:"allow_shallow"`
	WithCorrection bool    `toml:"with_correction"`
	Workers        int     `toml:"workers"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Tolerance: Tolerance{
			DomainEpsilon:  envelope.DefaultDomainEpsilon,
			ChargeRoundTol: envelope.DefaultChargeRoundTol,
			CoordinateTol:  envelope.DefaultCoordinateTol,
		},
		Diagram: Diagram{
			Margin:         DefaultMargin,
			NameStyle:      label.StyleNone.String(),
			AllowShallow:   true,
			WithCorrection: true,
		},
		Log: Log{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Load decodes path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	cfg.Domain.HasEMin = meta.IsDefined("domain", "e_min")
	cfg.Domain.HasEMax = meta.IsDefined("domain", "e_max")

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	t := c.Tolerance
	switch {
	case !(t.DomainEpsilon >= 0) || math.IsInf(t.DomainEpsilon, 1):
		return fmt.Errorf("%w: tolerance.domain_epsilon %g must be >= 0", ErrInvalid, t.DomainEpsilon)
	case !(t.ChargeRoundTol >= 0 && t.ChargeRoundTol < 0.5):
		return fmt.Errorf("%w: tolerance.charge_round_tol %g must be in [0, 0.5)", ErrInvalid, t.ChargeRoundTol)
	case !(t.CoordinateTol > 0) || math.IsInf(t.CoordinateTol, 1):
		return fmt.Errorf("%w: tolerance.coordinate_tol %g must be > 0", ErrInvalid, t.CoordinateTol)
	case !(c.Diagram.Margin >= 0) || math.IsInf(c.Diagram.Margin, 1):
		return fmt.Errorf("%w: diagram.margin %g must be >= 0", ErrInvalid, c.Diagram.Margin)
	case c.Diagram.Workers < 0:
		return fmt.Errorf("%w: diagram.workers %d must be >= 0", ErrInvalid, c.Diagram.Workers)
	case c.Domain.HasEMin && c.Domain.HasEMax && c.Domain.EMin >= c.Domain.EMax:
		return fmt.Errorf("%w: domain.e_min %g must be below domain.e_max %g", ErrInvalid, c.Domain.EMin, c.Domain.EMax)
	}
	if _, err := label.ParseStyle(c.Diagram.NameStyle); err != nil {
		return fmt.Errorf("%w: diagram.name_style: %v", ErrInvalid, err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("%w: log.format %q must be text or json", ErrInvalid, c.Log.Format)
	}

	return nil
}

// Style returns the parsed diagram.name_style.
func (c Config) Style() label.Style {
	s, _ := label.ParseStyle(c.Diagram.NameStyle)
	return s
}

// EnvelopeOptions converts the tolerances into solver options.
func (c Config) EnvelopeOptions() []envelope.Option {
	return []envelope.Option{
		envelope.WithDomainEpsilon(c.Tolerance.DomainEpsilon),
		envelope.WithChargeRoundTol(c.Tolerance.ChargeRoundTol),
		envelope.WithCoordinateTol(c.Tolerance.CoordinateTol),
	}
}

// DiagramOptions converts the configuration into aggregator options.
func (c Config) DiagramOptions(logger *slog.Logger) []diagram.Option {
	return []diagram.Option{
		diagram.WithEnvelopeOptions(c.EnvelopeOptions()...),
		diagram.WithWorkers(c.Diagram.Workers),
		diagram.WithBaseShift(c.Domain.BaseShift),
		diagram.WithLogger(logger),
	}
}

// NewLogger builds the slog logger described by the log section.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, s)
	}

	return l, nil
}
