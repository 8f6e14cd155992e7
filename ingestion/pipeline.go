package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/chemtrace/sdsvault/ai"
	"github.com/chemtrace/sdsvault/core"
	"github.com/chemtrace/sdsvault/storage"
)

// Pipeline expands source rows into section documents, embeds them, and
// writes them to storage. Rows are processed concurrently on a bounded
// worker pool.
type Pipeline struct {
	documents storage.DocumentRepository
	embedder  ai.Embedder
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent row processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return ErrInvalidPoolSize
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(documents storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents: documents,
		embedder:  embedder,
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Stats summarizes one ingestion run.
type Stats struct {
	Rows   int // source rows processed
	Stored int // documents written to storage
	Failed int // documents whose embedding failed
}

// Ingest processes the given rows and blocks until all of them have been
// stored. Each row becomes one document per section; section texts are
// embedded as a single batch per row. A document whose embedding fails is
// stored without a vector and counted in Stats.Failed. Storage errors for
// a row are logged and every document of that row counts as failed.
func (p *Pipeline) Ingest(ctx context.Context, rows []Row) (*Stats, error) {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		stats Stats
	)

	for _, row := range rows {
		row := row
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			stored, failed := p.ingestRow(ctx, row)

			mu.Lock()
			stats.Rows++
			stats.Stored += stored
			stats.Failed += failed
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	wg.Wait()
	return &stats, nil
}

// ingestRow embeds and stores one row. It returns the number of documents
// stored and the number whose embedding failed.
func (p *Pipeline) ingestRow(ctx context.Context, row Row) (stored, failed int) {
	docs := row.Documents()

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != len(docs) {
		if err != nil {
			p.logger.Warn("batch embedding failed, retrying per section",
				"row", row.Index, "product", row.ProductName, "err", err)
		}
		vectors = p.embedEach(ctx, docs)
	}

	for i, doc := range docs {
		if vectors[i] == nil {
			failed++
			continue
		}
		doc.Vector = vectors[i]
		doc.Fingerprint = core.Fingerprint(doc.Content)
	}

	if err := p.documents.AddDocuments(ctx, docs...); err != nil {
		p.logger.Error("storing row failed",
			"row", row.Index, "product", row.ProductName, "err", err)
		return 0, len(docs)
	}
	return len(docs), failed
}

// embedEach embeds each document individually so one bad section does not
// sink the whole row. Failed entries are nil.
func (p *Pipeline) embedEach(ctx context.Context, docs []*core.SectionDocument) [][]float32 {
	vectors := make([][]float32, len(docs))
	for i, doc := range docs {
		vector, err := p.embedder.EmbedText(ctx, doc.Content)
		if err != nil {
			p.logger.Warn("embedding section failed",
				"row", doc.Row, "section", doc.Section.Name(), "err", err)
			continue
		}
		vectors[i] = vector
	}
	return vectors
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
