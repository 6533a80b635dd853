package explore

import (
	"log/slog"

	"github.com/poiesic/frontier/tree"
)

// Option configures an Explorer.
type Option func(*options)

type options struct {
	stepSize      int
	maxIterations int64
	wander        float64
	seed          uint64
	params        tree.Params
	logger        *slog.Logger
	fatal         func(v any)
}

func defaultOptions() options {
	return options{
		stepSize: 400,
		params:   tree.DefaultParams(),
		logger:   slog.Default(),
		fatal:    func(v any) { panic(v) },
	}
}

// WithStepSize sets the number of inputs applied per extension.
// Default is 400.
func WithStepSize(n int) Option {
	return func(o *options) { o.stepSize = n }
}

// WithMaxIterations bounds each thread's loop. Zero runs until Stop.
// Default is 0.
func WithMaxIterations(n int64) Option {
	return func(o *options) { o.maxIterations = n }
}

// WithWander sets the probability that a thread ascends and then descends
// randomly from its last node before choosing an extension target.
// Default is 0.
func WithWander(p float64) Option {
	return func(o *options) { o.wander = p }
}

// WithSeed sets the run-wide seed from which each thread's random stream is
// derived. Default is 0.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithTreeParams sets the tree policy constants.
// Default is tree.DefaultParams().
func WithTreeParams(p tree.Params) Option {
	return func(o *options) { o.params = p }
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// WithFatalHandler replaces what happens after a thread fails. The handler
// receives the thread's panic value. The default re-panics, terminating the
// process.
func WithFatalHandler(fn func(v any)) Option {
	return func(o *options) {
		if fn != nil {
			o.fatal = fn
		}
	}
}
