// Package client provides the public API for running SQL queries and
// materializing their rows through registered result-set mappings.
package client

import (
	"context"
	"fmt"

	"github.com/satishbabariya/rowmap/internal/adapters/database"
	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/core/mapping/engine"
	"github.com/satishbabariya/rowmap/internal/core/mapping/registry"
	"github.com/satishbabariya/rowmap/internal/core/model"
)

// Client couples a database adapter with a mapping registry. A Client is
// safe for concurrent use; the sessions it creates are not.
type Client struct {
	adapter database.Adapter
	config  *Config
	catalog *model.Catalog
	engine  *engine.Engine
}

// New creates a client reading rows through adapter.
func New(adapter database.Adapter, opts ...Option) *Client {
	config := DefaultConfig()
	ApplyOptions(config, opts...)
	if config.Registry == nil {
		config.Registry = registry.New()
	}
	if config.Catalog == nil {
		config.Catalog = model.NewCatalog()
	}
	return &Client{
		adapter: adapter,
		config:  config,
		catalog: config.Catalog,
		engine:  engine.New(config.Registry),
	}
}

// Connect establishes a connection to the database.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.adapter.Connect(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return nil
}

// Disconnect closes the database connection.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.adapter.Disconnect(ctx)
}

// Adapter returns the underlying database adapter.
func (c *Client) Adapter() database.Adapter {
	return c.adapter
}

// Registry returns the mapping registry.
func (c *Client) Registry() *registry.Registry {
	return c.engine.Registry()
}

// Catalog returns the type catalog.
func (c *Client) Catalog() *model.Catalog {
	return c.catalog
}

// RegisterType adds t to the client's catalog.
func (c *Client) RegisterType(t *model.Type) error {
	return c.catalog.Add(t)
}

// RegisterStruct builds a type from the Go struct T and adds it to the
// client's catalog.
func RegisterStruct[T any](c *Client, opts ...model.Option) (*model.Type, error) {
	t, err := model.Struct[T](opts...)
	if err != nil {
		return nil, err
	}
	if err := c.RegisterType(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Register validates def and adds it to the registry.
func (c *Client) Register(def *domain.MappingDefinition) error {
	return c.engine.Registry().Register(def)
}

// NewSession starts a unit of work. Entities read within one session
// share identity: the same key always yields the same instance.
func (c *Client) NewSession() *Session {
	return &Session{client: c, session: c.engine.NewSession()}
}
