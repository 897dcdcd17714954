package tagdex

import "go.uber.org/zap"

// Converter turns a source object into the generic nested structure
// (string-keyed maps, slices, scalars) that gets indexed.
type Converter func(source any) (any, error)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	logger     *zap.Logger
	converters map[string]Converter
}

// WithLogger sets the logger used for debug output. Defaults to a no-op
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConverter registers a per-class conversion applied before the
// generic nested conversion. Without one, sources must already be maps,
// slices, and scalars.
func WithConverter(class string, fn Converter) Option {
	return func(c *clientConfig) {
		if c.converters == nil {
			c.converters = make(map[string]Converter)
		}
		c.converters[class] = fn
	}
}
