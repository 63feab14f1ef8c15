package llm

import (
	"fmt"
	"sort"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/config"
)

// defines a function that creates a new provider instance from the app config
type ProviderFactory func(cfg *config.Config) (Provider, error)

// global registry of available providers
var providers = make(map[string]ProviderFactory)

// registers a provider factory with the given name
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// creates a new provider instance based on the given name
func NewProvider(name string, cfg *config.Config) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return factory(cfg)
}

// RegisteredProviders lists registered provider names, sorted
func RegisteredProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
