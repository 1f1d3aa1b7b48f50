package extractor

import (
	"fmt"

	"recivo/internal/config"
	"recivo/internal/port"
)

// ProviderFactory is a function that creates a LineItemExtractor from config.
type ProviderFactory func(cfg *config.ExtractorConfig) (port.LineItemExtractor, error)

// registry of extractor provider factories, populated explicitly via
// RegisterProvider from cmd wiring.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extractor provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// New creates a LineItemExtractor from config using the registered factory.
func New(cfg *config.ExtractorConfig) (port.LineItemExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
