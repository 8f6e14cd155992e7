package openai

import (
	"errors"
	"testing"

	"github.com/chemtrace/sdsvault/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		embedder, err := NewEmbedder(ai.NewConfig(ai.WithToken("sk-test")))
		require.NoError(t, err)
		assert.NotNil(t, embedder)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := ai.DefaultConfig()
		cfg.EmbeddingModel = ""
		_, err := NewEmbedder(cfg)
		assert.Error(t, err)
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", errors.New("API returned: 429 Too Many Requests"), true},
		{"explicit rate limit text", errors.New("rate limit exceeded, retry later"), true},
		{"gateway error", errors.New("unexpected status: 502 Bad Gateway"), true},
		{"unavailable", errors.New("unexpected status: 503 Service Unavailable"), true},
		{"timeout", errors.New("request timeout"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"invalid input", errors.New("invalid input: text too long"), false},
		{"bad model", errors.New("model not found"), false},
		{"auth failure", errors.New("401 unauthorized"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}
