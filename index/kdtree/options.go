package kdtree

import (
	"log/slog"
)

// DefaultBruteForceSize is the subtree size at or below which Tree scans
// points directly instead of descending further.
const DefaultBruteForceSize = 34

// Option configures tree construction.
type Option func(*options)

type options struct {
	bruteForceSize *int
	logger         *slog.Logger
}

// WithBruteForceSize sets the subtree size at or below which queries scan
// points directly. It affects performance only; results do not depend on it.
func WithBruteForceSize(size int) Option {
	return func(o *options) {
		o.bruteForceSize = &size
	}
}

// WithLogger sets the logger receiving construction records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(defaultBruteForce int, opts []Option) (options, int) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	size := defaultBruteForce
	if o.bruteForceSize != nil {
		size = max(*o.bruteForceSize, 0)
	}
	return o, size
}
