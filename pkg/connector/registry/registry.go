// Package registry manages connector registration and instantiation.
// Concrete connectors register a factory in their init function; callers
// resolve connectors by name.
package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tributary/pkg/config"
	"github.com/ajitpratap0/tributary/pkg/connector/core"
	"github.com/ajitpratap0/tributary/pkg/errors"
	"github.com/ajitpratap0/tributary/pkg/logger"
)

// Factory is a function that creates a configured connector instance.
type Factory func(cfg *config.ConnectorConfig) (core.Connector, error)

// Registry maps connector names to factories
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
	logger    *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new connector registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger.With(zap.String("component", "connector_registry")),
	}
}

// Register registers a connector factory
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "connector %s already registered", name)
	}

	r.factories[name] = factory
	r.logger.Debug("connector registered", zap.String("name", name))
	return nil
}

// Create instantiates a registered connector by name
func (r *Registry) Create(name string, cfg *config.ConnectorConfig) (core.Connector, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown connector: %s", name)
	}

	return factory(cfg)
}

// List returns the names of all registered connectors, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register registers a connector factory in the global registry
func Register(name string, factory Factory) error {
	return globalRegistry.Register(name, factory)
}

// Create instantiates a connector from the global registry
func Create(name string, cfg *config.ConnectorConfig) (core.Connector, error) {
	return globalRegistry.Create(name, cfg)
}

// List returns all connector names in the global registry
func List() []string {
	return globalRegistry.List()
}
