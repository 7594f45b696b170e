package model

import (
	"context"
	"testing"
)

type nopProvider struct {
	Provider
	name string
}

func (p *nopProvider) Name() string                    { return p.name }
func (p *nopProvider) HealthCheck(context.Context) error { return nil }
func (p *nopProvider) Close() error                    { return nil }

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	factory := func(config *ProviderConfig) (Provider, error) {
		return &nopProvider{name: config.Name}, nil
	}

	if err := registry.Register("fake", factory); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := registry.Register("fake", factory); err == nil {
		t.Error("expected an error registering a duplicate name")
	}

	provider, err := registry.Open("fake", &ProviderConfig{Name: "fake"})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if provider.Name() != "fake" {
		t.Errorf("Name() = %q", provider.Name())
	}

	if _, err := registry.Open("missing", &ProviderConfig{}); err == nil {
		t.Error("expected an error opening an unregistered provider")
	}

	names := registry.List()
	if len(names) != 1 || names[0] != "fake" {
		t.Errorf("List() = %v", names)
	}
}
