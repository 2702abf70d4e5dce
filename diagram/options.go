// SPDX-License-Identifier: MIT

package diagram

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/katalvlaran/defectlevels/envelope"
)

const panicWorkersInvalid = "diagram: WithWorkers: n must be non-negative"

// Options configures Aggregate.
type Options struct {
	envelope  []envelope.Option
	workers   int // 0 = GOMAXPROCS
	logger    *slog.Logger
	baseShift float64
}

// Option is a functional option for Aggregate.
type Option func(*Options)

// DefaultOptions uses the envelope defaults, GOMAXPROCS workers and a discard logger.
func DefaultOptions() Options {
	return Options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithEnvelopeOptions forwards numeric policy to envelope.Solve.
func WithEnvelopeOptions(opts ...envelope.Option) Option {
	return func(o *Options) { o.envelope = append(o.envelope, opts...) }
}

// WithWorkers bounds the number of defects solved concurrently. Zero selects
// GOMAXPROCS; one solves sequentially.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithLogger sets the structured logger used to report excluded defects.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBaseShift reports every Fermi level of the diagram relative to base.
func WithBaseShift(base float64) Option {
	return func(o *Options) { o.baseShift = base }
}

func gatherOptions(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers == 0 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}

	return cfg
}
