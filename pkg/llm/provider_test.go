package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("should default to gemini", func(t *testing.T) {
		p, err := NewProvider(ctx, Config{APIKey: "test-key"})
		require.NoError(t, err)
		assert.Equal(t, "gemini", p.Name())
	})

	t.Run("should create openai provider", func(t *testing.T) {
		p, err := NewProvider(ctx, Config{Provider: "openai", APIKey: "test-key"})
		require.NoError(t, err)
		assert.Equal(t, "openai", p.Name())
	})

	t.Run("should create anthropic provider", func(t *testing.T) {
		p, err := NewProvider(ctx, Config{Provider: "anthropic", APIKey: "test-key"})
		require.NoError(t, err)
		assert.Equal(t, "anthropic", p.Name())
	})

	t.Run("should reject unknown provider", func(t *testing.T) {
		_, err := NewProvider(ctx, Config{Provider: "watson", APIKey: "test-key"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported provider")
	})
}
