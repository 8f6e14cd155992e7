package storage

import (
	"context"

	"github.com/chemtrace/sdsvault/core"
)

// Filter expresses AND-combined exact-match constraints over document
// metadata. Zero-valued fields impose no constraint, except ProductName,
// which callers on the retrieval path must always set.
type Filter struct {
	// ProductName matches core.SectionDocument.ProductName byte-for-byte.
	ProductName string

	// Supplier, when non-empty, matches Supplier byte-for-byte.
	Supplier string

	// SectionIDs, when non-empty, is a membership filter over Section.
	SectionIDs []core.SectionID
}

// Matches reports whether a document satisfies every provided criterion.
func (f *Filter) Matches(doc *core.SectionDocument) bool {
	if f.ProductName != "" && doc.ProductName != f.ProductName {
		return false
	}
	if f.Supplier != "" && doc.Supplier != f.Supplier {
		return false
	}
	if len(f.SectionIDs) > 0 {
		member := false
		for _, id := range f.SectionIDs {
			if doc.Section == id {
				member = true
				break
			}
		}
		if !member {
			return false
		}
	}
	return true
}

// DocumentRepository provides operations for managing section documents.
// Implementations must be thread-safe and support concurrent reads; the
// retrieval path never mutates stored documents.
type DocumentRepository interface {
	// AddDocuments stores one or more section documents, validating each at
	// the boundary and setting IngestedAt if unset. Writing a key that
	// already exists replaces the previous document atomically, which makes
	// ingestion idempotent per document key.
	AddDocuments(ctx context.Context, docs ...*core.SectionDocument) error

	// UpdateDocuments replaces existing documents. Content, Vector, and
	// Fingerprint are written together so the two can never drift.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.SectionDocument) error

	// DeleteDocuments removes documents and their index entries by key.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, keys ...core.DocumentKey) error

	// GetDocument retrieves a single document by key.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, key core.DocumentKey) (*core.SectionDocument, error)

	// FindDocuments returns every document satisfying the filter, in
	// ascending (Row, Section) order. An empty result is a valid outcome,
	// not an error.
	FindDocuments(ctx context.Context, filter Filter) ([]*core.SectionDocument, error)

	// AllDocuments returns the whole corpus in ascending (Row, Section)
	// order. Intended for offline maintenance jobs.
	AllDocuments(ctx context.Context) ([]*core.SectionDocument, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
