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


// Package ai provides the embedding abstraction used by ingestion,
// retrieval, and reembedding.
//
// The package defines the Embedder interface so that the domain and
// business logic depend on an abstraction rather than a concrete client.
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation against OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles with no external dependencies
//
// Production constructors (openai.NewEmbedder) return the ai.Embedder
// interface to enforce the abstraction. Mock constructors return concrete
// types so tests can inject behavior and make assertions.
package ai
