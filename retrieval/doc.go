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


// Package retrieval implements multi-stage retrieval of SDS sections.
//
// The Retriever composes two stages over a read-only corpus:
//
//   - Metadata filtering: exact-match constraints on product, supplier, and
//     section membership narrow the corpus to a candidate set.
//   - Similarity ranking: each free-text query term is embedded once and
//     scored against the stored embedding of every candidate by dot
//     product; the single best candidate per term becomes a match.
//
// Aggregation applies a precision-over-recall policy: when the caller
// scoped the query to specific sections and any term found no usable
// match, the whole request reports a section mismatch with a suggestion to
// retry unscoped, rather than silently returning fewer results.
package retrieval
