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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a SectionDocument failed validation.
	ErrInvalidDocument = errors.New("invalid section document")

	// ErrInvalidQuery indicates a Query failed validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrProductNameRequired indicates the required product name is missing.
	ErrProductNameRequired = errors.New("product name is required")

	// ErrInvalidSectionID indicates a section ID outside the 1-16 vocabulary.
	ErrInvalidSectionID = errors.New("section id must be between 1 and 16")

	// ErrEmptyFileName indicates the FileName field is empty.
	ErrEmptyFileName = errors.New("file name cannot be empty")

	// ErrEmbeddingDrift indicates a document's vector no longer corresponds
	// to its content.
	ErrEmbeddingDrift = errors.New("vector does not match content fingerprint")
)
