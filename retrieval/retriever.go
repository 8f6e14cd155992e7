package retrieval

import (
	"context"
	"log/slog"

	"github.com/chemtrace/sdsvault/ai"
	"github.com/chemtrace/sdsvault/core"
	"github.com/chemtrace/sdsvault/storage"
)

// SectionMismatchSuggestion is the guidance attached to a section-scoped
// query whose terms found no match within the requested sections.
const SectionMismatchSuggestion = "Remove the section filter to search across all sections for broader results."

// Retriever answers SDS section queries against a read-only corpus.
// Each call is independent and synchronous; the only shared state is the
// repository handle, which is safe for concurrent reads.
type Retriever struct {
	documents storage.DocumentRepository
	embedder  ai.Embedder
	logger    *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(documents storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		documents: documents,
		embedder:  embedder,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve runs one retrieval call: metadata filtering, then per-term
// similarity ranking. A caller-supplied deadline on ctx aborts remaining
// embedding calls and surfaces the context error.
//
// The returned Result is always structured: NotFound when the filters
// excluded everything, SectionMismatch when a section-scoped term had no
// usable match, Matched otherwise. Only query validation, store failures,
// and context cancellation produce an error.
func (r *Retriever) Retrieve(ctx context.Context, query core.Query) (*core.Result, error) {
	return r.RetrieveWithMonitor(ctx, query, nil)
}

// RetrieveWithMonitor runs a retrieval call with monitoring. The monitor
// receives callbacks at each stage of the process.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query core.Query, monitor RetrievalMonitor) (*core.Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if err := core.ValidateQuery(&query); err != nil {
		return nil, err
	}
	monitor.Start(query)

	// 1. Metadata filter: exact-match constraints, AND-combined.
	candidates, err := r.documents.FindDocuments(ctx, storage.Filter{
		ProductName: query.ProductName,
		Supplier:    query.Supplier,
		SectionIDs:  query.SectionIDs,
	})
	if err != nil {
		r.logger.Error("error filtering documents", "product", query.ProductName, "err", err)
		return nil, err
	}
	monitor.AfterFilter(candidates)

	// The exact-match filters excluded everything; distinct from a
	// section mismatch below.
	if len(candidates) == 0 {
		result := &core.Result{Status: core.StatusNotFound}
		monitor.Finish(result)
		return result, nil
	}

	// 2. No terms: browse fallback, first candidate in stable order, no
	// embedding calls.
	if len(query.Terms) == 0 {
		result := r.matchedResult(query, candidates[:1])
		monitor.Finish(result)
		return result, nil
	}

	// 3. Similarity ranking, one best match per term. Terms are scored
	// independently; an embedding failure skips the term, never the
	// request.
	matches := make([]*core.SectionDocument, 0, len(query.Terms))
	unmatched := false
	for _, term := range query.Terms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vector, err := r.embedder.EmbedText(ctx, term)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("error embedding query term, term skipped", "term", term, "err", err)
			unmatched = true
			monitor.TermUnmatched(term)
			continue
		}

		best, score, ok := bestMatch(vector, candidates)
		if !ok {
			unmatched = true
			monitor.TermUnmatched(term)
			continue
		}
		monitor.TermMatched(term, best, score)
		matches = append(matches, best)
	}

	// 4. Aggregate. A section-scoped query with any unmatched term reports
	// the mismatch instead of a partial result.
	if unmatched && query.SectionScoped() {
		r.logger.Info("no match within the requested sections",
			"product", query.ProductName, "sections", query.SectionIDs)
		result := &core.Result{
			Status:     core.StatusSectionMismatch,
			Suggestion: SectionMismatchSuggestion,
		}
		monitor.Finish(result)
		return result, nil
	}

	// Every term went unmatched without a section restriction: fall back
	// to the first filtered document.
	if len(matches) == 0 {
		result := r.matchedResult(query, candidates[:1])
		monitor.Finish(result)
		return result, nil
	}

	result := r.matchedResult(query, matches)
	monitor.Finish(result)
	return result, nil
}

// matchedResult builds a Matched result, one record per document.
func (r *Retriever) matchedResult(query core.Query, docs []*core.SectionDocument) *core.Result {
	records := make([]core.MatchRecord, 0, len(docs))
	for _, doc := range docs {
		supplier := doc.Supplier
		if supplier == "" {
			supplier = core.SupplierNotProvided
		}
		records = append(records, core.MatchRecord{
			ProductName: doc.ProductName,
			Supplier:    supplier,
			SectionID:   doc.Section,
			QueryTerms:  query.Terms,
			PageContent: doc.Content,
		})
	}
	return &core.Result{Status: core.StatusMatched, Matches: records}
}
