package network

import "fmt"

// Default configuration values (named, no magic numbers).
const defaultWorkers = 1

// Option customizes network assembly by mutating the resolved config.
type Option func(*config)

// config aggregates all assembly knobs. Resolved once in New; no globals.
type config struct {
	workers  int
	warnings []Warning
}

// newConfig applies options in order over deterministic defaults;
// later options override earlier ones. Complexity: O(len(opts)).
func newConfig(opts ...Option) config {
	cfg := config{workers: defaultWorkers}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithWorkers sets the number of workers used for the per-group entity
// loops. 1 (the default) runs sequentially. A value below 1 is a
// misconfiguration: it is clamped to 1 and recorded as a structured Warning
// on the built Network instead of being printed.
func WithWorkers(w int) Option {
	return func(c *config) {
		if w < 1 {
			c.warnings = append(c.warnings, Warning{
				Option:  "WithWorkers",
				Message: fmt.Sprintf("worker count %d below 1; running sequentially", w),
			})
			c.workers = defaultWorkers

			return
		}
		c.workers = w
	}
}
