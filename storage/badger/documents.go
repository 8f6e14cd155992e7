package badger

import (
	"context"
	"time"

	"github.com/chemtrace/sdsvault/core"
	"github.com/chemtrace/sdsvault/storage"
	"github.com/dgraph-io/badger/v4"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) *DocumentRepository {
	return &DocumentRepository{backend: backend}
}

// Close releases repository resources. The backend is closed separately by
// its owner.
func (r *DocumentRepository) Close() error {
	return nil
}

// AddDocuments stores one or more section documents. Writing an existing
// key replaces the previous document and its index entry atomically, which
// makes re-ingestion idempotent per document key.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.SectionDocument) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if err := core.ValidateDocument(doc); err != nil {
				return err
			}
			if doc.IngestedAt.IsZero() {
				doc.IngestedAt = time.Now().UTC()
			}

			if err := r.writeDocument(tx, doc); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// UpdateDocuments replaces existing documents. Content, Vector, and
// Fingerprint travel together in one value, so readers can never observe a
// vector that belongs to different content.
func (r *DocumentRepository) UpdateDocuments(ctx context.Context, docs ...*core.SectionDocument) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if err := core.ValidateDocument(doc); err != nil {
				return err
			}

			old, err := r.readDocument(tx, makeDocumentKey(doc.Key()))
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if err := r.writeDocument(tx, doc); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteDocuments removes documents and their index entries by key.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, keys ...core.DocumentKey) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			docKey := makeDocumentKey(key)

			doc, err := r.readDocument(tx, docKey)
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeProductIndexKey(doc.ProductName, key)); err != nil {
				return err
			}
			if err := tx.Delete(docKey); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a single document by key.
func (r *DocumentRepository) GetDocument(ctx context.Context, key core.DocumentKey) (*core.SectionDocument, error) {
	var result *core.SectionDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readDocument(tx, makeDocumentKey(key))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindDocuments returns every document satisfying the filter, in ascending
// (Row, Section) order. When the filter names a product, the product index
// narrows the scan; the loaded document is still checked against the full
// filter, which keeps matching byte-for-byte exact.
func (r *DocumentRepository) FindDocuments(ctx context.Context, filter storage.Filter) ([]*core.SectionDocument, error) {
	if filter.ProductName == "" {
		return r.scanDocuments(ctx, &filter)
	}

	var results []*core.SectionDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialProductIndexKey(filter.ProductName)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var key core.DocumentKey
			err := iter.Item().Value(func(val []byte) error {
				var err error
				key, err = storage.UnmarshalDocumentKey(val)
				return err
			})
			if err != nil {
				return err
			}

			doc, err := r.readDocument(tx, makeDocumentKey(key))
			if err != nil {
				return err
			}
			if doc == nil || !filter.Matches(doc) {
				continue
			}
			results = append(results, doc)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// AllDocuments returns the whole corpus in ascending (Row, Section) order.
func (r *DocumentRepository) AllDocuments(ctx context.Context) ([]*core.SectionDocument, error) {
	return r.scanDocuments(ctx, nil)
}

// scanDocuments iterates the primary records, optionally filtering.
func (r *DocumentRepository) scanDocuments(ctx context.Context, filter *storage.Filter) ([]*core.SectionDocument, error) {
	var results []*core.SectionDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.SectionDocument
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc == nil {
				continue
			}
			if filter != nil && !filter.Matches(doc) {
				continue
			}
			results = append(results, doc)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// writeDocument stores the primary record and maintains the product index.
// Must be called within a write transaction.
func (r *DocumentRepository) writeDocument(tx *badger.Txn, doc *core.SectionDocument) error {
	docKey := makeDocumentKey(doc.Key())

	// Drop a stale index entry if the product name changed on replace.
	old, err := r.readDocument(tx, docKey)
	if err != nil {
		return err
	}
	if old != nil && old.ProductName != doc.ProductName {
		if err := tx.Delete(makeProductIndexKey(old.ProductName, old.Key())); err != nil {
			return err
		}
	}

	if err := tx.Set(docKey, storage.MarshalDocument(doc)); err != nil {
		return err
	}
	indexKey := makeProductIndexKey(doc.ProductName, doc.Key())
	return tx.Set(indexKey, storage.MarshalDocumentKey(doc.Key()))
}

// readDocument reads a document by its raw key. Returns nil when the key
// does not exist.
func (r *DocumentRepository) readDocument(tx *badger.Txn, rawKey []byte) (*core.SectionDocument, error) {
	item, err := tx.Get(rawKey)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.SectionDocument
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
