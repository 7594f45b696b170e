package model

import "sync"

// ProviderFactory creates provider instances from a configuration.
type ProviderFactory func(config *ProviderConfig) (Provider, error)

// Registry manages available provider factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]ProviderFactory),
	}
}

// Register adds a provider factory under name.
func (r *Registry) Register(name string, factory ProviderFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return NewProviderError(ErrTypeConfiguration, "provider already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Open creates a provider instance by name.
func (r *Registry) Open(name string, config *ProviderConfig) (Provider, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, NewProviderError(ErrTypeConfiguration, "provider not registered", name)
	}
	return factory(config)
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// Global registry instance
var globalRegistry = NewRegistry()

// GlobalRegistry returns the global provider registry.
func GlobalRegistry() *Registry {
	return globalRegistry
}

// RegisterProvider registers a provider factory in the global registry.
func RegisterProvider(name string, factory ProviderFactory) error {
	return globalRegistry.Register(name, factory)
}

// OpenProvider creates a provider from the global registry.
func OpenProvider(name string, config *ProviderConfig) (Provider, error) {
	return globalRegistry.Open(name, config)
}
