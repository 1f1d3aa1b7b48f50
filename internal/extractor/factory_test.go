package extractor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"recivo/internal/config"
	"recivo/internal/extractor"
	"recivo/internal/port"
)

type stubExtractor struct {
	model string
}

func (s *stubExtractor) Extract(_ context.Context, _ port.ExtractInput) (*port.ExtractOutput, error) {
	return &port.ExtractOutput{ModelUsed: s.model}, nil
}

func TestFactory_RegisterAndCreate(t *testing.T) {
	extractor.RegisterProvider("test-provider", func(cfg *config.ExtractorConfig) (port.LineItemExtractor, error) {
		return &stubExtractor{model: cfg.DefaultModel}, nil
	})

	e, err := extractor.New(&config.ExtractorConfig{
		Provider:     "test-provider",
		DefaultModel: "test-model",
	})

	assert.NoError(t, err)
	assert.NotNil(t, e)
}

func TestFactory_UnknownProvider(t *testing.T) {
	e, err := extractor.New(&config.ExtractorConfig{
		Provider: "nonexistent-provider-xyz",
	})

	assert.Nil(t, e)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extractor provider")
}
