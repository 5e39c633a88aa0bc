package llm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullProvider struct{}

func (nullProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}

func (nullProvider) EmbedSingle(_ context.Context, _ string) ([]float32, error) {
	return nil, nil
}

func (nullProvider) Generate(_ context.Context, _ string, _ string) (*GenerateResponse, error) {
	return &GenerateResponse{}, nil
}

func (nullProvider) Name() string { return "null" }

func TestRegisterAndNewProvider(t *testing.T) {
	RegisterProvider("null", func(_ map[string]any) (Provider, error) {
		return nullProvider{}, nil
	})

	p, err := NewProvider("null", nil)
	require.NoError(t, err)
	assert.Equal(t, "null", p.Name())

	assert.Contains(t, ListProviders(), "null")
}

func TestNewProviderUnknownListsRegistered(t *testing.T) {
	RegisterProvider("null", func(_ map[string]any) (Provider, error) {
		return nullProvider{}, nil
	})

	_, err := NewProvider("no-such-backend", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "no-such-backend"`)
	assert.Contains(t, err.Error(), "null")
}

func TestNewProviderFactoryError(t *testing.T) {
	RegisterProvider("broken", func(_ map[string]any) (Provider, error) {
		return nil, fmt.Errorf("bad config")
	})

	_, err := NewProvider("broken", nil)
	assert.EqualError(t, err, "bad config")
}
