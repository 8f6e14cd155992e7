package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/chemtrace/sdsvault/ai"
	"github.com/chemtrace/sdsvault/core"
	"github.com/chemtrace/sdsvault/storage"
)

// BatchProcessor handles embedding generation for batches of section documents.
type BatchProcessor struct {
	repo           storage.DocumentRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
	normalize      bool
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
// normalize: whether to normalize vectors to unit length after embedding
func NewBatchProcessor(repo storage.DocumentRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration, normalize bool) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		normalize:      normalize,
	}
}

// Process generates embeddings for a batch of documents and updates them in
// the database. Vectors and content fingerprints are written together so the
// stored embedding always describes the stored text.
func (bp *BatchProcessor) Process(ctx context.Context, docs []*core.SectionDocument) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(docs) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(docs), len(embeddings))
	}

	for i := range docs {
		vector := embeddings[i]
		if bp.normalize {
			vector = NormalizeVector(vector)
		}
		docs[i].Vector = vector
		docs[i].Fingerprint = core.Fingerprint(docs[i].Content)
	}

	if err := bp.repo.UpdateDocuments(ctx, docs...); err != nil {
		return fmt.Errorf("failed to update documents: %w", err)
	}

	return nil
}
