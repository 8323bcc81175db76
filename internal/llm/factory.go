package llm

import (
	"fmt"

	"creditpipe/internal/config"
	"creditpipe/internal/port"
)

// ProviderFactory is a function that creates a TextGenerator from a provider config.
type ProviderFactory func(cfg *config.LLMProviderConfig) (port.TextGenerator, error)

// registry of generator provider factories, populated explicitly via
// RegisterProvider (each provider package is registered in cmd wiring).
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a generator provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewGenerator creates a TextGenerator from a provider config using the registered factory.
func NewGenerator(cfg *config.LLMProviderConfig) (port.TextGenerator, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
