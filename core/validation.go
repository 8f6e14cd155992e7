// Copyright 2026 Chemtrace Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateDocument validates a SectionDocument at the store boundary.
//
// Validation rules:
//   - Section must be in the canonical 1-16 vocabulary
//   - ProductName must not be empty
//   - FileName must not be empty
//   - When a Vector is present, Fingerprint must match Content
//
// NOT validated:
//   - Content (blank source cells produce empty content by design of the
//     source data; the document is still stored)
//   - Supplier (legitimately absent for some sheets)
//   - Vector (can be empty until the document is embedded)
func ValidateDocument(doc *SectionDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if !doc.Section.Valid() {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidDocument, ErrInvalidSectionID, doc.Section)
	}

	if doc.ProductName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrProductNameRequired)
	}

	if doc.FileName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFileName)
	}

	if len(doc.Vector) > 0 && doc.Fingerprint != Fingerprint(doc.Content) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmbeddingDrift)
	}

	return nil
}

// ValidateQuery validates a Query before the retrieval pipeline runs.
//
// Validation rules:
//   - ProductName must not be empty
//   - Every entry of SectionIDs must be in the 1-16 vocabulary
//
// Supplier and Terms are optional and unconstrained.
func ValidateQuery(q *Query) error {
	if q == nil {
		return fmt.Errorf("%w: query is nil", ErrInvalidQuery)
	}

	if q.ProductName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrProductNameRequired)
	}

	for _, id := range q.SectionIDs {
		if !id.Valid() {
			return fmt.Errorf("%w: %w: got %d", ErrInvalidQuery, ErrInvalidSectionID, id)
		}
	}

	return nil
}
