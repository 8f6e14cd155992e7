package badger

import (
	"context"
	"testing"

	"github.com/chemtrace/sdsvault/core"
	"github.com/chemtrace/sdsvault/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.DocumentRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func embeddedDoc(row uint32, section core.SectionID, product, supplier, content string) *core.SectionDocument {
	return &core.SectionDocument{
		Row:         row,
		Section:     section,
		FileName:    product + "_sds.pdf",
		ProductName: product,
		Supplier:    supplier,
		Content:     content,
		Vector:      []float32{float32(row), float32(section), 0.5},
		Fingerprint: core.Fingerprint(content),
	}
}

func seedCorpus(t *testing.T, repo storage.DocumentRepository) {
	t.Helper()
	ctx := context.Background()
	docs := []*core.SectionDocument{
		embeddedDoc(0, core.SectionIdentification, "Acetone", "ChemCo", "Acetone, propan-2-one"),
		embeddedDoc(0, core.SectionFirstAid, "Acetone", "ChemCo", "Rinse skin with water"),
		embeddedDoc(0, core.SectionHandlingStorage, "Acetone", "ChemCo", "Keep away from heat"),
		embeddedDoc(1, core.SectionFirstAid, "Acetone", "SolventWorks", "Seek medical attention"),
		embeddedDoc(2, core.SectionFirstAid, "Toluene", "ChemCo", "Remove contaminated clothing"),
		embeddedDoc(3, core.SectionHazards, "Acetone Plus", "ChemCo", "Extremely flammable"),
	}
	require.NoError(t, repo.AddDocuments(ctx, docs...))
}

func TestAddAndGetDocument(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc := embeddedDoc(7, core.SectionFirstAid, "Acetone", "ChemCo", "Rinse skin with water")
	require.NoError(t, repo.AddDocuments(ctx, doc))
	assert.False(t, doc.IngestedAt.IsZero(), "IngestedAt should be set on add")

	got, err := repo.GetDocument(ctx, core.DocumentKey{Row: 7, Section: core.SectionFirstAid})
	require.NoError(t, err)
	assert.Equal(t, "Rinse skin with water", got.Content)
	assert.Equal(t, doc.Vector, got.Vector)
	assert.Equal(t, doc.Fingerprint, got.Fingerprint)
}

func TestGetDocumentNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetDocument(context.Background(), core.DocumentKey{Row: 99, Section: core.SectionOther})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddDocumentValidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("invalid section", func(t *testing.T) {
		doc := embeddedDoc(1, 17, "Acetone", "", "text")
		assert.ErrorIs(t, repo.AddDocuments(ctx, doc), core.ErrInvalidSectionID)
	})

	t.Run("drifted vector", func(t *testing.T) {
		doc := embeddedDoc(1, core.SectionHazards, "Acetone", "", "original text")
		doc.Content = "edited text"
		assert.ErrorIs(t, repo.AddDocuments(ctx, doc), core.ErrEmbeddingDrift)
	})
}

func TestAddDocumentsIsIdempotentPerKey(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := embeddedDoc(5, core.SectionHazards, "Acetone", "ChemCo", "Flammable")
	require.NoError(t, repo.AddDocuments(ctx, first))

	second := embeddedDoc(5, core.SectionHazards, "Acetone", "ChemCo", "Highly flammable")
	require.NoError(t, repo.AddDocuments(ctx, second))

	found, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Acetone"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Highly flammable", found[0].Content)
}

func TestReplaceMaintainsProductIndex(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc := embeddedDoc(5, core.SectionHazards, "Acetone", "ChemCo", "Flammable")
	require.NoError(t, repo.AddDocuments(ctx, doc))

	// The same key re-ingested under a corrected product name must move,
	// not duplicate, the index entry.
	renamed := embeddedDoc(5, core.SectionHazards, "Acetone Technical", "ChemCo", "Flammable")
	require.NoError(t, repo.AddDocuments(ctx, renamed))

	old, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Acetone"})
	require.NoError(t, err)
	assert.Empty(t, old)

	current, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Acetone Technical"})
	require.NoError(t, err)
	assert.Len(t, current, 1)
}

func TestUpdateDocuments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("missing document", func(t *testing.T) {
		doc := embeddedDoc(8, core.SectionFirstAid, "Acetone", "", "text")
		assert.ErrorIs(t, repo.UpdateDocuments(ctx, doc), storage.ErrNotFound)
	})

	t.Run("replaces vector and fingerprint together", func(t *testing.T) {
		doc := embeddedDoc(8, core.SectionFirstAid, "Acetone", "", "Rinse skin with water")
		require.NoError(t, repo.AddDocuments(ctx, doc))

		doc.Vector = []float32{9, 9, 9}
		require.NoError(t, repo.UpdateDocuments(ctx, doc))

		got, err := repo.GetDocument(ctx, doc.Key())
		require.NoError(t, err)
		assert.Equal(t, []float32{9, 9, 9}, got.Vector)
		assert.Equal(t, core.Fingerprint("Rinse skin with water"), got.Fingerprint)
	})
}

func TestDeleteDocuments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCorpus(t, repo)

	key := core.DocumentKey{Row: 0, Section: core.SectionFirstAid}
	require.NoError(t, repo.DeleteDocuments(ctx, key))

	_, err := repo.GetDocument(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Index entry must be gone as well.
	found, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Acetone"})
	require.NoError(t, err)
	for _, doc := range found {
		assert.NotEqual(t, key, doc.Key())
	}

	t.Run("missing key", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteDocuments(ctx, key), storage.ErrNotFound)
	})
}

func TestFindDocumentsByProduct(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCorpus(t, repo)

	found, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Acetone"})
	require.NoError(t, err)
	require.Len(t, found, 4)
	for _, doc := range found {
		assert.Equal(t, "Acetone", doc.ProductName)
	}
}

func TestFindDocumentsProductPrefixDoesNotBleed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCorpus(t, repo)

	// "Acetone" must not pick up "Acetone Plus" documents.
	found, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Acetone"})
	require.NoError(t, err)
	for _, doc := range found {
		assert.Equal(t, "Acetone", doc.ProductName)
	}

	plus, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Acetone Plus"})
	require.NoError(t, err)
	require.Len(t, plus, 1)
	assert.Equal(t, core.SectionHazards, plus[0].Section)
}

func TestFindDocumentsNarrowsStrictly(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCorpus(t, repo)

	all, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Acetone"})
	require.NoError(t, err)

	bySupplier, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Acetone", Supplier: "ChemCo"})
	require.NoError(t, err)

	bySection, err := repo.FindDocuments(ctx, storage.Filter{
		ProductName: "Acetone",
		Supplier:    "ChemCo",
		SectionIDs:  []core.SectionID{core.SectionFirstAid},
	})
	require.NoError(t, err)

	require.True(t, len(bySection) <= len(bySupplier) && len(bySupplier) <= len(all))
	assert.Len(t, bySupplier, 3)
	require.Len(t, bySection, 1)
	assert.Equal(t, "Rinse skin with water", bySection[0].Content)

	// Subset membership, not just cardinality.
	keys := func(docs []*core.SectionDocument) map[core.DocumentKey]bool {
		m := make(map[core.DocumentKey]bool, len(docs))
		for _, d := range docs {
			m[d.Key()] = true
		}
		return m
	}
	allKeys, supplierKeys := keys(all), keys(bySupplier)
	for k := range keys(bySection) {
		assert.True(t, supplierKeys[k])
	}
	for k := range supplierKeys {
		assert.True(t, allKeys[k])
	}
}

func TestFindDocumentsSectionMembership(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCorpus(t, repo)

	found, err := repo.FindDocuments(ctx, storage.Filter{
		ProductName: "Acetone",
		SectionIDs:  []core.SectionID{core.SectionIdentification, core.SectionFirstAid},
	})
	require.NoError(t, err)
	require.Len(t, found, 3)
	for _, doc := range found {
		assert.Contains(t, []core.SectionID{core.SectionIdentification, core.SectionFirstAid}, doc.Section)
	}
}

func TestFindDocumentsEmptyResult(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCorpus(t, repo)

	found, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Benzene"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindDocumentsStableOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCorpus(t, repo)

	first, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Acetone"})
	require.NoError(t, err)
	second, err := repo.FindDocuments(ctx, storage.Filter{ProductName: "Acetone"})
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))

	// Ascending (Row, Section), and identical across calls.
	for i := range first {
		assert.Equal(t, first[i].Key(), second[i].Key())
		if i > 0 {
			prev, cur := first[i-1], first[i]
			less := prev.Row < cur.Row || (prev.Row == cur.Row && prev.Section < cur.Section)
			assert.True(t, less, "documents out of order at %d", i)
		}
	}
}

func TestAllDocuments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCorpus(t, repo)

	all, err := repo.AllDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
