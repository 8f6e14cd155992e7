package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DocumentKey uniquely identifies a section document by its source row
// index and section ID. It is also the storage key.
type DocumentKey struct {
	Row     uint32
	Section SectionID
}

// SectionDocument is one indexed unit: a single SDS section with its
// embedding and exact-match metadata. Documents are created during
// ingestion and are read-only on the retrieval path.
type SectionDocument struct {
	Row         uint32
	Section     SectionID
	FileName    string
	ProductName string
	Supplier    string
	Content     string    // may be empty when the source cell was blank
	Vector      []float32 // embedding of Content, populated at ingestion
	Fingerprint uint64    // Fingerprint(Content) taken when Vector was generated
	IngestedAt  time.Time
}

// Key returns the document's storage identity.
func (d *SectionDocument) Key() DocumentKey {
	return DocumentKey{Row: d.Row, Section: d.Section}
}

// Fingerprint generates a deterministic 64-bit digest of text content using
// BLAKE2b. The store uses it to verify that a document's vector was
// generated from exactly the content it is stored with.
func Fingerprint(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Query describes one retrieval call. It is constructed at the system
// boundary, consumed within a single call, and discarded.
type Query struct {
	ProductName string      // required, exact match
	Supplier    string      // optional, exact match when non-empty
	SectionIDs  []SectionID // optional membership filter
	Terms       []string    // optional free-text terms; empty means browse
}

// SectionScoped reports whether the query restricts results to specific
// sections. The no-match aggregation policy depends on it.
func (q *Query) SectionScoped() bool {
	return len(q.SectionIDs) > 0
}

// SupplierNotProvided is the marker exposed in match records when the
// stored metadata carries no supplier.
const SupplierNotProvided = "Not Provided"

// MatchRecord is one retrieval hit.
type MatchRecord struct {
	ProductName string
	Supplier    string // SupplierNotProvided when absent from metadata
	SectionID   SectionID
	QueryTerms  []string // the full query term list, echoed
	PageContent string
}

// ResultStatus discriminates retrieval outcomes.
type ResultStatus int

const (
	// StatusMatched means one or more match records were produced.
	StatusMatched ResultStatus = iota + 1
	// StatusNotFound means the metadata filters excluded every document.
	StatusNotFound
	// StatusSectionMismatch means a section-scoped query had at least one
	// term with no usable match.
	StatusSectionMismatch
)

// Result is the structured outcome of one retrieval call.
type Result struct {
	Status     ResultStatus
	Matches    []MatchRecord
	Suggestion string // populated for StatusSectionMismatch
}
