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


// Package ingestion loads safety data sheet rows from tabular sources,
// expands each row into per-section documents, generates embeddings, and
// stores the results.
//
// A source row carries one sheet: its file name, product name, supplier,
// and the text of all sixteen sections. Rows are processed concurrently
// on a bounded worker pool; section texts within a row are embedded as a
// single batch. Embedding failures are counted and the affected documents
// are stored without vectors so that re-embedding can pick them up later.
package ingestion
