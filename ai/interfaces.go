package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// scoring. Implementations must be thread-safe for concurrent use, and are
// expected to treat every call as a potentially slow, rate-limited network
// operation: transient failures should be retried with bounded backoff,
// while invalid-input rejections should be returned immediately.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as
	// the input texts. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
