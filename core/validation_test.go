package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *SectionDocument {
	content := "Rinse skin with water"
	return &SectionDocument{
		Row:         7,
		Section:     SectionFirstAid,
		FileName:    "acetone_sds.pdf",
		ProductName: "Acetone",
		Supplier:    "ChemCo",
		Content:     content,
		Vector:      []float32{0.1, 0.2, 0.3},
		Fingerprint: Fingerprint(content),
	}
}

func TestValidateDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		assert.NoError(t, ValidateDocument(validDocument()))
	})

	t.Run("nil document", func(t *testing.T) {
		err := ValidateDocument(nil)
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("section out of range", func(t *testing.T) {
		doc := validDocument()
		doc.Section = 17
		err := ValidateDocument(doc)
		assert.ErrorIs(t, err, ErrInvalidSectionID)
	})

	t.Run("missing product name", func(t *testing.T) {
		doc := validDocument()
		doc.ProductName = ""
		err := ValidateDocument(doc)
		assert.ErrorIs(t, err, ErrProductNameRequired)
	})

	t.Run("missing file name", func(t *testing.T) {
		doc := validDocument()
		doc.FileName = ""
		err := ValidateDocument(doc)
		assert.ErrorIs(t, err, ErrEmptyFileName)
	})

	t.Run("empty content is allowed", func(t *testing.T) {
		doc := validDocument()
		doc.Content = ""
		doc.Fingerprint = Fingerprint("")
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("missing supplier is allowed", func(t *testing.T) {
		doc := validDocument()
		doc.Supplier = ""
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("unembedded document is allowed", func(t *testing.T) {
		doc := validDocument()
		doc.Vector = nil
		doc.Fingerprint = 0
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("vector drifted from content", func(t *testing.T) {
		doc := validDocument()
		doc.Content = "Edited after embedding"
		err := ValidateDocument(doc)
		assert.ErrorIs(t, err, ErrEmbeddingDrift)
	})
}

func TestValidateQuery(t *testing.T) {
	t.Run("minimal valid query", func(t *testing.T) {
		assert.NoError(t, ValidateQuery(&Query{ProductName: "Acetone"}))
	})

	t.Run("fully specified query", func(t *testing.T) {
		q := &Query{
			ProductName: "Acetone",
			Supplier:    "ChemCo",
			SectionIDs:  []SectionID{SectionFirstAid, SectionHazards},
			Terms:       []string{"burns", "eye contact"},
		}
		assert.NoError(t, ValidateQuery(q))
	})

	t.Run("nil query", func(t *testing.T) {
		assert.ErrorIs(t, ValidateQuery(nil), ErrInvalidQuery)
	})

	t.Run("missing product name", func(t *testing.T) {
		err := ValidateQuery(&Query{Supplier: "ChemCo"})
		assert.ErrorIs(t, err, ErrProductNameRequired)
	})

	t.Run("section id out of range", func(t *testing.T) {
		err := ValidateQuery(&Query{ProductName: "Acetone", SectionIDs: []SectionID{0}})
		assert.ErrorIs(t, err, ErrInvalidSectionID)
	})
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("Rinse skin with water")
	b := Fingerprint("Rinse skin with water")
	c := Fingerprint("rinse skin with water")

	require.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotZero(t, a)
}

func TestQuerySectionScoped(t *testing.T) {
	assert.False(t, (&Query{ProductName: "Acetone"}).SectionScoped())
	assert.True(t, (&Query{ProductName: "Acetone", SectionIDs: []SectionID{SectionFirstAid}}).SectionScoped())
}
