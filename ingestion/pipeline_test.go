package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtrace/sdsvault/ai/mock"
	"github.com/chemtrace/sdsvault/core"
	"github.com/chemtrace/sdsvault/storage"
	"github.com/chemtrace/sdsvault/storage/badger"
)

func setupPipelineTest(t *testing.T) (storage.DocumentRepository, *mock.MockEmbedder, *Pipeline) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	pipeline, err := NewPipeline(repo, embedder, WithPoolSize(2))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return repo, embedder, pipeline
}

func testRow(index uint32, product string) Row {
	row := Row{
		Index:       index,
		FileName:    product + ".pdf",
		ProductName: product,
		Supplier:    "ChemCo",
		Sections:    make(map[core.SectionID]string, core.MaxSectionID),
	}
	for section := core.SectionIdentification; section <= core.SectionOther; section++ {
		row.Sections[section] = product + " " + section.Name()
	}
	return row
}

func TestNewPipeline(t *testing.T) {
	repo, _, _ := setupPipelineTest(t)
	embedder := mock.NewMockEmbedder()

	t.Run("requires document repository", func(t *testing.T) {
		_, err := NewPipeline(nil, embedder)
		require.ErrorIs(t, err, ErrDocumentRepositoryRequired)
	})

	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewPipeline(repo, nil)
		require.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("rejects invalid pool size", func(t *testing.T) {
		_, err := NewPipeline(repo, embedder, WithPoolSize(0))
		require.ErrorIs(t, err, ErrInvalidPoolSize)
	})
}

func TestPipelineIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("stores one document per section", func(t *testing.T) {
		repo, _, pipeline := setupPipelineTest(t)

		stats, err := pipeline.Ingest(ctx, []Row{testRow(0, "Acetone"), testRow(1, "Toluene")})
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Rows)
		assert.Equal(t, 2*core.MaxSectionID, stats.Stored)
		assert.Equal(t, 0, stats.Failed)

		docs, err := repo.AllDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2*core.MaxSectionID)

		for _, doc := range docs {
			assert.NotEmpty(t, doc.Vector, "document %v should carry a vector", doc.Key())
			assert.Equal(t, core.Fingerprint(doc.Content), doc.Fingerprint)
			assert.False(t, doc.IngestedAt.IsZero())
		}
	})

	t.Run("falls back to per-section embedding when batch fails", func(t *testing.T) {
		repo, embedder, pipeline := setupPipelineTest(t)
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("batch too large")
		}

		stats, err := pipeline.Ingest(ctx, []Row{testRow(0, "Acetone")})
		require.NoError(t, err)
		assert.Equal(t, core.MaxSectionID, stats.Stored)
		assert.Equal(t, 0, stats.Failed)

		docs, err := repo.AllDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, docs, core.MaxSectionID)
		for _, doc := range docs {
			assert.NotEmpty(t, doc.Vector)
		}
	})

	t.Run("stores failed sections without vectors", func(t *testing.T) {
		repo, embedder, pipeline := setupPipelineTest(t)
		row := testRow(0, "Acetone")
		poisoned := row.Sections[core.SectionFirstAid]

		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("batch failed")
		}
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			if text == poisoned {
				return nil, errors.New("embedding failed")
			}
			return []float32{0.1, 0.2, 0.3}, nil
		}

		stats, err := pipeline.Ingest(ctx, []Row{row})
		require.NoError(t, err)
		assert.Equal(t, core.MaxSectionID, stats.Stored)
		assert.Equal(t, 1, stats.Failed)

		doc, err := repo.GetDocument(ctx, core.DocumentKey{Row: 0, Section: core.SectionFirstAid})
		require.NoError(t, err)
		assert.Nil(t, doc.Vector)
		assert.Equal(t, poisoned, doc.Content)

		other, err := repo.GetDocument(ctx, core.DocumentKey{Row: 0, Section: core.SectionHazards})
		require.NoError(t, err)
		assert.NotEmpty(t, other.Vector)
	})

	t.Run("counts whole row failed when storage rejects it", func(t *testing.T) {
		_, _, pipeline := setupPipelineTest(t)
		row := testRow(0, "Acetone")
		row.FileName = ""

		stats, err := pipeline.Ingest(ctx, []Row{row})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Rows)
		assert.Equal(t, 0, stats.Stored)
		assert.Equal(t, core.MaxSectionID, stats.Failed)
	})

	t.Run("re-ingesting the same rows is idempotent", func(t *testing.T) {
		repo, _, pipeline := setupPipelineTest(t)
		rows := []Row{testRow(0, "Acetone")}

		_, err := pipeline.Ingest(ctx, rows)
		require.NoError(t, err)
		_, err = pipeline.Ingest(ctx, rows)
		require.NoError(t, err)

		docs, err := repo.AllDocuments(ctx)
		require.NoError(t, err)
		assert.Len(t, docs, core.MaxSectionID)
	})

	t.Run("no rows yields empty stats", func(t *testing.T) {
		_, _, pipeline := setupPipelineTest(t)

		stats, err := pipeline.Ingest(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Rows)
		assert.Equal(t, 0, stats.Stored)
	})
}
