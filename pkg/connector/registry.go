package connector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Factory opens a connector for the given address string.
type Factory func(ctx context.Context, url string, logger *slog.Logger) (Queryable, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a connector factory to the registry.
// Called by connector implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a connector factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// List returns all registered connector names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a connector type is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// Connect opens a connector of the given type. The logger parameter is
// passed to the connector constructor (nil uses a discard logger).
func Connect(ctx context.Context, typ, url string, logger *slog.Logger) (Queryable, error) {
	if typ == "" {
		return nil, fmt.Errorf("connector type not specified")
	}
	factory, ok := Get(typ)
	if !ok {
		return nil, &UnknownConnectorError{
			Type:      typ,
			Available: List(),
		}
	}
	return factory(ctx, url, logger)
}

// UnknownConnectorError is returned when an unknown connector type is
// requested.
type UnknownConnectorError struct {
	Type      string
	Available []string
}

func (e *UnknownConnectorError) Error() string {
	return fmt.Sprintf("unknown connector type %q\nAvailable connectors: %v\nHint: Check the datasource type in driftsql.yaml", e.Type, e.Available)
}
