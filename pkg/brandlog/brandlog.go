// Package brandlog gives every kernel package a shared, optional
// diagnostic logger. It is never required for correctness: components
// default to a no-op logger and only emit on lifecycle events worth
// tracing (migration, recycling, poisoning).
package brandlog

import "go.uber.org/zap"

// Logger is the sink kernel components write diagnostics to.
type Logger = *zap.SugaredLogger

// Nop returns a logger that discards everything, the default for every
// constructor that accepts an Option.
func Nop() Logger {
	return zap.NewNop().Sugar()
}

// Option configures a component's logger. Constructors across
// pkg/arena, pkg/pool, pkg/lazylock and pkg/sharedtoken accept
// ...Option so a caller can opt into tracing without every component
// repeating the same field.
type Option func(*Config)

// Config holds the subset of construction-time options that every
// branded container shares.
type Config struct {
	Log Logger
}

// New builds a Config from options, defaulting to a no-op logger.
func New(opts ...Option) Config {
	c := Config{Log: Nop()}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(c *Config) { c.Log = l }
}
