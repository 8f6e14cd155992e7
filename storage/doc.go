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


// Package storage defines the document repository abstraction and the MUS
// binary encoding of stored documents.
//
// A document's content, embedding vector, and metadata are serialized into
// a single value under one key, so readers always observe the three
// together. The storage/badger sub-package provides the BadgerDB
// implementation.
package storage
