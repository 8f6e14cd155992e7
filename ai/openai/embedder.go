package openai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/chemtrace/sdsvault/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// Rate-limited and transient failures are retried with bounded exponential
// backoff; invalid-input rejections are returned immediately.
type Embedder struct {
	embedder   embeddings.Embedder
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// "none" keeps local OpenAI-compatible services happy when no token
	// is configured.
	token := config.Token
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:   embedder,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
		logger:     slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	return vectors, nil
}

// embedDocuments calls the underlying client with bounded retry.
func (e *Embedder) embedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	delay := e.retryDelay

	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		vectors, err := e.embedder.EmbedDocuments(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == e.maxRetries {
			break
		}

		e.logger.Warn("embedding attempt failed, retrying",
			"attempt", attempt, "delay", delay, "err", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, lastErr
}

// isRetryable reports whether an embedding error is worth retrying.
// Rate limits and transport hiccups are transient; everything else
// (e.g. invalid input, bad model name) is rejected outright.
func isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit",
		"429",
		"timeout",
		"temporarily",
		"connection reset",
		"connection refused",
		"502",
		"503",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
