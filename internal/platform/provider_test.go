package platform

import (
	"errors"
	"testing"

	"github.com/mj1618/docklike/internal/logger"
)

func TestNewProvider_UsesRegisteredFunc(t *testing.T) {
	orig := NewProviderFunc
	defer func() { NewProviderFunc = orig }()

	NewProviderFunc = func(*logger.Logger) (*Provider, error) {
		return &Provider{Name: "fake"}, nil
	}

	p, err := NewProvider(logger.Nop())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name != "fake" {
		t.Errorf("Name = %q, want fake", p.Name)
	}
}

func TestNewProvider_UnsupportedPlatform(t *testing.T) {
	// Temporarily clear the provider func to simulate an unsupported session
	orig := NewProviderFunc
	NewProviderFunc = nil
	defer func() { NewProviderFunc = orig }()

	_, err := NewProvider(logger.Nop())
	if err == nil {
		t.Fatal("expected error on unsupported platform")
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got: %v", err)
	}
}
