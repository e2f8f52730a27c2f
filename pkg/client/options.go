package client

import (
	"time"

	"github.com/satishbabariya/rowmap/internal/core/mapping/registry"
	"github.com/satishbabariya/rowmap/internal/core/model"
	"github.com/satishbabariya/rowmap/internal/core/schema"
)

// Config contains the client configuration.
type Config struct {
	// QueryTimeout bounds a mapped query from execution until its last
	// row is read. Zero disables the bound.
	// Default: 30 seconds
	QueryTimeout time.Duration

	// LogQueries logs every executed query at debug level.
	// Default: false
	LogQueries bool

	// Registry holds the mapping definitions. A new one is used when nil.
	Registry *registry.Registry

	// Catalog holds the registered types. A new one is used when nil.
	Catalog *model.Catalog
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		QueryTimeout: 30 * time.Second,
	}
}

// Option is a function that configures the client.
type Option func(*Config)

// WithQueryTimeout sets the query timeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.QueryTimeout = d
	}
}

// WithLogQueries enables query logging.
func WithLogQueries(enabled bool) Option {
	return func(c *Config) {
		c.LogQueries = enabled
	}
}

// WithRegistry shares an existing mapping registry.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Config) {
		c.Registry = r
	}
}

// WithSchema uses the models and mappings of a loaded schema file.
func WithSchema(s *schema.Schema) Option {
	return func(c *Config) {
		c.Registry = s.Registry
		c.Catalog = s.Catalog
	}
}

// ApplyOptions applies options to a config.
func ApplyOptions(config *Config, opts ...Option) {
	for _, opt := range opts {
		opt(config)
	}
}
